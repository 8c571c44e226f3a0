package catalog

import m "macroflow/models"

func tags(t ...m.ClassTag) []m.ClassTag { return t }

// marketRisk holds equity indices, volatility, rates, spreads and financial
// conditions.
var marketRisk = []m.VariableDefinition{
	{Code: "US_SP500", Name: "S&P 500 Index", Description: "Main US equity index (500 largest companies)",
		Provider: m.ProviderFRED, NativeID: "SP500", Frequency: m.Daily, Unit: "Index", Transformation: m.TransformNone,
		Relevance: "Market cycle - primary US equity sentiment", Classes: tags(m.TagEquityUSA, m.TagEquityGlobal)},
	{Code: "US_NASDAQ", Name: "NASDAQ Composite Index", Description: "US technology and growth index",
		Provider: m.ProviderFRED, NativeID: "NASDAQCOM", Frequency: m.Daily, Unit: "Index", Transformation: m.TransformNone,
		Relevance: "Market cycle - technology/growth sentiment", Classes: tags(m.TagEquityUSA)},
	{Code: "US_RUSSELL2000", Name: "Russell 2000 Index", Description: "US small caps index",
		Provider: m.ProviderFRED, NativeID: "RU2000PR", Frequency: m.Daily, Unit: "Index", Transformation: m.TransformNone,
		Relevance: "Market cycle - small caps risk appetite", Classes: tags(m.TagEquityUSA)},
	{Code: "EU_STOXX600", Name: "STOXX Europe 600", Description: "Main European equity index (600 companies)",
		Provider: m.ProviderOECD, NativeID: "STOXX600", Frequency: m.Daily, Unit: "Index", Transformation: m.TransformNone,
		Relevance: "Market cycle - primary European equity sentiment", Classes: tags(m.TagEquityEurope, m.TagEquityGlobal)},
	{Code: "GLOBAL_MSCI_WORLD", Name: "MSCI World Index", Description: "Developed markets global equity index",
		Provider: m.ProviderFRED, NativeID: "MXWO", Frequency: m.Daily, Unit: "Index", Transformation: m.TransformNone,
		Relevance: "Market cycle - global equity sentiment", Classes: tags(m.TagEquityGlobal)},
	{Code: "EM_MSCI_EM", Name: "MSCI Emerging Markets Index", Description: "Emerging markets equity index",
		Provider: m.ProviderFRED, NativeID: "MXEF", Frequency: m.Daily, Unit: "Index", Transformation: m.TransformNone,
		Relevance: "Market cycle - emerging markets sentiment", Classes: tags(m.TagEquityAsiaExJapan, m.TagEquityEmerging)},
	{Code: "US_VIX", Name: "VIX - CBOE Volatility Index", Description: "S&P 500 implied volatility (fear index)",
		Provider: m.ProviderFRED, NativeID: "VIXCLS", Frequency: m.Daily, Unit: "Index", Transformation: m.TransformMomentumInverted,
		Relevance: "Market cycle - key fear/stress gauge", Classes: tags(m.TagAll)},
	{Code: "EU_VSTOXX", Name: "VSTOXX - Euro STOXX 50 Volatility", Description: "Euro STOXX 50 implied volatility",
		Provider: m.ProviderFRED, NativeID: "V2TX", Frequency: m.Daily, Unit: "Index", Transformation: m.TransformMomentumInverted,
		Relevance: "Market cycle - European fear index", Classes: tags(m.TagEquityEurope, m.TagCorporateEUR, m.TagHighYieldEUR)},
	{Code: "US_MOVE", Name: "MOVE Index - Bond Volatility", Description: "US Treasury implied volatility",
		Provider: m.ProviderFRED, NativeID: "MOVE", Frequency: m.Daily, Unit: "Index", Transformation: m.TransformMomentumInverted,
		Relevance: "Market cycle - fixed income stress", Classes: tags(m.TagGovernmentUSD)},
	{Code: "US_YIELD_3M", Name: "US Treasury 3-Month Yield", Description: "3-month US Treasury yield",
		Provider: m.ProviderFRED, NativeID: "DGS3MO", Frequency: m.Daily, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - short term monetary policy", Classes: tags(m.TagMonetaryEUR, m.TagMonetaryUSD)},
	{Code: "US_YIELD_2Y", Name: "US Treasury 2-Year Yield", Description: "2-year US Treasury yield",
		Provider: m.ProviderFRED, NativeID: "DGS2", Frequency: m.Daily, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - rate expectations", Classes: tags(m.TagGovernmentUSD)},
	{Code: "US_YIELD_5Y", Name: "US Treasury 5-Year Yield", Description: "5-year US Treasury yield",
		Provider: m.ProviderFRED, NativeID: "DGS5", Frequency: m.Daily, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - medium term rates", Classes: tags(m.TagGovernmentUSD)},
	{Code: "US_YIELD_10Y", Name: "US Treasury 10-Year Yield", Description: "10-year US Treasury yield (benchmark)",
		Provider: m.ProviderFRED, NativeID: "DGS10", Frequency: m.Daily, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - long term rate benchmark",
		Classes:   tags(m.TagGovernmentEUR, m.TagGovernmentUSD, m.TagCorporateUSD, m.TagEmergingDebt)},
	{Code: "US_YIELD_30Y", Name: "US Treasury 30-Year Yield", Description: "30-year US Treasury yield",
		Provider: m.ProviderFRED, NativeID: "DGS30", Frequency: m.Daily, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - ultra long rates", Classes: tags(m.TagGovernmentUSD)},
	{Code: "US_SPREAD_10Y2Y", Name: "US 10Y-2Y Spread", Description: "10Y minus 2Y Treasury spread (recession signal when negative)",
		Provider: m.ProviderFRED, NativeID: "T10Y2Y", Frequency: m.Daily, Unit: "pp", Transformation: m.TransformNone,
		Relevance: "Economic cycle - recession predictor", Classes: tags(m.TagAll)},
	{Code: "US_SPREAD_10Y3M", Name: "US 10Y-3M Spread", Description: "10Y minus 3M Treasury spread (early recession signal)",
		Provider: m.ProviderFRED, NativeID: "T10Y3M", Frequency: m.Daily, Unit: "pp", Transformation: m.TransformNone,
		Relevance: "Economic cycle - leading recession signal", Classes: tags(m.TagGovernmentUSD)},
	{Code: "US_CREDIT_IG_SPREAD", Name: "ICE BofA US Corporate IG OAS", Description: "US investment grade corporate option-adjusted spread",
		Provider: m.ProviderFRED, NativeID: "BAMLC0A0CM", Frequency: m.Daily, Unit: "bp", Transformation: m.TransformMomentumInverted,
		Relevance: "Market cycle - IG credit stress", Classes: tags(m.TagCorporateUSD)},
	{Code: "US_CREDIT_HY_SPREAD", Name: "ICE BofA US High Yield OAS", Description: "US high yield option-adjusted spread",
		Provider: m.ProviderFRED, NativeID: "BAMLH0A0HYM2", Frequency: m.Daily, Unit: "bp", Transformation: m.TransformMomentumInverted,
		Relevance: "Market cycle - HY credit stress (leading)", Classes: tags(m.TagAll)},
	{Code: "EU_CREDIT_IG_SPREAD", Name: "ICE BofA Euro Corporate IG OAS", Description: "EUR investment grade corporate spread",
		Provider: m.ProviderFRED, NativeID: "BAMLHE00EHYIEY", Frequency: m.Daily, Unit: "bp", Transformation: m.TransformMomentumInverted,
		Relevance: "Market cycle - European IG credit stress", Classes: tags(m.TagCorporateEUR)},
	{Code: "EU_CREDIT_HY_SPREAD", Name: "ICE BofA Euro High Yield OAS", Description: "EUR high yield spread",
		Provider: m.ProviderFRED, NativeID: "BAMLHE00EHYIOAS", Frequency: m.Daily, Unit: "bp", Transformation: m.TransformMomentumInverted,
		Relevance: "Market cycle - European HY stress", Classes: tags(m.TagHighYieldEUR)},
	{Code: "EM_CREDIT_SPREAD", Name: "Emerging Markets Corporate Spread", Description: "Emerging markets sovereign/corporate spread proxy",
		Provider: m.ProviderFRED, NativeID: "BAMLEMCBPITRIV", Frequency: m.Daily, Unit: "bp", Transformation: m.TransformMomentumInverted,
		Relevance: "Market cycle - emerging markets risk",
		Classes:   tags(m.TagEquityAsiaExJapan, m.TagEquityEmerging, m.TagEmergingDebt)},
	{Code: "EU_YIELD_2Y", Name: "Euro Area 2-Year Yield", Description: "Euro area short term rate",
		Provider: m.ProviderECB, NativeID: "FM.M.U2.EUR.RT.MM.EURIBOR2MD_.HSTA", Frequency: m.Monthly, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - EUR short rates", Classes: tags(m.TagGovernmentEUR)},
	{Code: "EU_YIELD_10Y", Name: "German Bund 10-Year Yield", Description: "German 10-year government yield (EUR benchmark)",
		Provider: m.ProviderFRED, NativeID: "IRLTLT01DEM156N", Frequency: m.Monthly, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - EUR rate benchmark",
		Classes:   tags(m.TagEquityEurope, m.TagGovernmentEUR, m.TagCorporateEUR)},
	{Code: "US_FINANCIAL_CONDITIONS", Name: "Chicago Fed National Financial Conditions Index", Description: "US financial conditions (>0 = tight)",
		Provider: m.ProviderFRED, NativeID: "NFCI", Frequency: m.Weekly, Unit: "Index", Transformation: m.TransformMomentumInverted,
		Relevance: "Market cycle - overall financial conditions", Classes: tags(m.TagHighYieldUSD)},
}

// macro holds activity, inflation, labour and policy rate series.
var macro = []m.VariableDefinition{
	{Code: "US_GDP", Name: "US Real GDP", Description: "US real GDP level",
		Provider: m.ProviderFRED, NativeID: "GDPC1", Frequency: m.Quarterly, Unit: "Billions of Chained 2017 Dollars", Transformation: m.TransformYoYPercent,
		Relevance: "Economic cycle - US growth", Classes: tags(m.TagEquityUSA, m.TagEquityGlobal)},
	{Code: "US_CFNAI", Name: "Chicago Fed National Activity Index", Description: "US activity index, 3-month moving average",
		Provider: m.ProviderFRED, NativeID: "CFNAIMA3", Frequency: m.Monthly, Unit: "Index", Transformation: m.TransformMomentum,
		Relevance: "Economic cycle - primary activity indicator", Classes: tags(m.TagAll)},
	{Code: "US_ISM_MANUFACTURING", Name: "ISM Manufacturing PMI", Description: "US manufacturing purchasing managers index (>50 = expansion)",
		Provider: m.ProviderFRED, NativeID: "NAPM", Frequency: m.Monthly, Unit: "Index", Transformation: m.TransformMomentum,
		Relevance: "Economic cycle - manufacturing activity",
		Classes:   tags(m.TagEquityUSA, m.TagEquityGlobal, m.TagCorporateUSD, m.TagHighYieldUSD)},
	{Code: "US_ISM_SERVICES", Name: "ISM Services PMI", Description: "US services purchasing managers index",
		Provider: m.ProviderFRED, NativeID: "NMFCI", Frequency: m.Monthly, Unit: "Index", Transformation: m.TransformMomentum,
		Relevance: "Economic cycle - services activity", Classes: tags(m.TagRiskIndicator)},
	{Code: "US_INDUSTRIAL_PRODUCTION", Name: "Industrial Production Index", Description: "US industrial production",
		Provider: m.ProviderFRED, NativeID: "INDPRO", Frequency: m.Monthly, Unit: "Index 2017=100", Transformation: m.TransformYoYPercent,
		Relevance: "Economic cycle - industrial output", Classes: tags(m.TagRiskIndicator)},
	{Code: "US_RETAIL_SALES", Name: "Retail Sales", Description: "US retail sales excluding food services",
		Provider: m.ProviderFRED, NativeID: "RSXFS", Frequency: m.Monthly, Unit: "Millions of Dollars", Transformation: m.TransformYoYPercent,
		Relevance: "Economic cycle - consumption", Classes: tags(m.TagRiskIndicator)},
	{Code: "US_CPI", Name: "Consumer Price Index", Description: "US headline consumer prices",
		Provider: m.ProviderFRED, NativeID: "CPIAUCSL", Frequency: m.Monthly, Unit: "Index 1982-84=100", Transformation: m.TransformYoYPercent,
		Relevance: "Economic cycle - headline inflation", Classes: tags(m.TagEquityUSA, m.TagGovernmentUSD)},
	{Code: "US_CORE_CPI", Name: "Core CPI", Description: "US consumer prices excluding food and energy",
		Provider: m.ProviderFRED, NativeID: "CPILFESL", Frequency: m.Monthly, Unit: "Index 1982-84=100", Transformation: m.TransformYoYPercent,
		Relevance: "Economic cycle - core inflation", Classes: tags(m.TagRiskIndicator)},
	{Code: "US_PCE", Name: "Personal Consumption Expenditures Price Index", Description: "PCE price index",
		Provider: m.ProviderFRED, NativeID: "PCEPI", Frequency: m.Monthly, Unit: "Index 2017=100", Transformation: m.TransformYoYPercent,
		Relevance: "Economic cycle - PCE inflation", Classes: tags(m.TagRiskIndicator)},
	{Code: "US_CORE_PCE", Name: "Core PCE", Description: "PCE excluding food and energy (Fed target)",
		Provider: m.ProviderFRED, NativeID: "PCEPILFE", Frequency: m.Monthly, Unit: "Index 2017=100", Transformation: m.TransformYoYPercent,
		Relevance: "Economic cycle - Fed inflation target", Classes: tags(m.TagEquityUSA, m.TagGovernmentUSD)},
	{Code: "US_INFLATION_EXPECTATIONS_5Y", Name: "5-Year Breakeven Inflation Rate", Description: "Market implied 5-year inflation expectations",
		Provider: m.ProviderFRED, NativeID: "T5YIE", Frequency: m.Daily, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - inflation expectations", Classes: tags(m.TagGovernmentUSD)},
	{Code: "US_INFLATION_EXPECTATIONS_5Y5Y", Name: "5-Year, 5-Year Forward Inflation Expectation", Description: "Inflation expectations five years ahead",
		Provider: m.ProviderFRED, NativeID: "T5YIFR", Frequency: m.Daily, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - anchoring of expectations", Classes: tags(m.TagRiskIndicator)},
	{Code: "US_UNEMPLOYMENT_RATE", Name: "Unemployment Rate", Description: "US unemployment rate",
		Provider: m.ProviderFRED, NativeID: "UNRATE", Frequency: m.Monthly, Unit: "%", Transformation: m.TransformMomentumInverted,
		Relevance: "Economic cycle - labour market", Classes: tags(m.TagEquityUSA)},
	{Code: "US_NONFARM_PAYROLLS", Name: "Non-Farm Payrolls", Description: "US non-farm employment",
		Provider: m.ProviderFRED, NativeID: "PAYEMS", Frequency: m.Monthly, Unit: "Thousands", Transformation: m.TransformMonthOverMonth,
		Relevance: "Economic cycle - job creation", Classes: tags(m.TagRiskIndicator)},
	{Code: "US_INITIAL_CLAIMS", Name: "Initial Unemployment Claims", Description: "Weekly initial jobless claims",
		Provider: m.ProviderFRED, NativeID: "ICSA", Frequency: m.Weekly, Unit: "Thousands", Transformation: m.TransformMomentumInverted,
		Relevance: "Economic cycle - leading labour indicator", Classes: tags(m.TagRiskIndicator)},
	{Code: "US_FED_FUNDS_RATE", Name: "Federal Funds Effective Rate", Description: "Fed policy rate",
		Provider: m.ProviderFRED, NativeID: "FEDFUNDS", Frequency: m.Monthly, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - monetary policy", Classes: tags(m.TagAll)},
	{Code: "EU_GDP", Name: "Eurozone Real GDP", Description: "Euro area real GDP",
		Provider: m.ProviderFRED, NativeID: "NAEXKP01EZQ652S", Frequency: m.Quarterly, Unit: "Index", Transformation: m.TransformYoYPercent,
		Relevance: "Economic cycle - euro area growth", Classes: tags(m.TagEquityEurope, m.TagEquityGlobal)},
	{Code: "EU_PMI_MANUFACTURING", Name: "Eurozone Manufacturing PMI", Description: "Euro area manufacturing PMI",
		Provider: m.ProviderFRED, NativeID: "EAPMI", Frequency: m.Monthly, Unit: "Index", Transformation: m.TransformMomentum,
		Relevance: "Economic cycle - EUR manufacturing activity",
		Classes:   tags(m.TagEquityEurope, m.TagCorporateEUR, m.TagHighYieldEUR)},
	{Code: "EU_PMI_SERVICES", Name: "Eurozone Services PMI", Description: "Euro area services PMI",
		Provider: m.ProviderOECD, NativeID: "EA_PMI_SERVICES", Frequency: m.Monthly, Unit: "Index", Transformation: m.TransformMomentum,
		Relevance: "Economic cycle - EUR services activity", Classes: tags(m.TagEquityEurope)},
	{Code: "EU_HICP", Name: "Eurozone HICP", Description: "Harmonised index of consumer prices",
		Provider: m.ProviderECB, NativeID: "ICP.M.U2.Y.000000.3.INX", Frequency: m.Monthly, Unit: "Index 2015=100", Transformation: m.TransformYoYPercent,
		Relevance: "Economic cycle - euro area inflation", Classes: tags(m.TagEquityEurope, m.TagGovernmentEUR)},
	{Code: "EU_CORE_HICP", Name: "Eurozone Core HICP", Description: "HICP excluding energy and food",
		Provider: m.ProviderECB, NativeID: "ICP.M.U2.Y.XEF000.3.INX", Frequency: m.Monthly, Unit: "Index 2015=100", Transformation: m.TransformYoYPercent,
		Relevance: "Economic cycle - EUR core inflation", Classes: tags(m.TagEquityEurope)},
	{Code: "EU_UNEMPLOYMENT_RATE", Name: "Eurozone Unemployment Rate", Description: "Euro area unemployment rate",
		Provider: m.ProviderFRED, NativeID: "LRHUTTTTEZM156S", Frequency: m.Monthly, Unit: "%", Transformation: m.TransformMomentumInverted,
		Relevance: "Economic cycle - EUR labour market", Classes: tags(m.TagEquityEurope)},
	{Code: "EU_ECB_DEPOSIT_RATE", Name: "ECB Deposit Facility Rate", Description: "ECB deposit facility rate",
		Provider: m.ProviderECB, NativeID: "FM.D.U2.EUR.4F.KR.DFR.LEV", Frequency: m.Daily, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - ECB monetary policy",
		Classes:   tags(m.TagEquityEurope, m.TagGovernmentEUR, m.TagMonetaryEUR)},
	{Code: "CN_GDP", Name: "China GDP", Description: "China GDP (World Bank via FRED)",
		Provider: m.ProviderFRED, NativeID: "MKTGDPCNA646NWDB", Frequency: m.Annual, Unit: "Current USD", Transformation: m.TransformYoYPercent,
		Relevance: "Economic cycle - China growth",
		Classes:   tags(m.TagEquityAsiaExJapan, m.TagEquityEmerging, m.TagEmergingDebt)},
	{Code: "CN_PMI_MANUFACTURING", Name: "China Manufacturing PMI", Description: "Official China manufacturing PMI",
		Provider: m.ProviderFRED, NativeID: "CHNPMINTO", Frequency: m.Monthly, Unit: "Index", Transformation: m.TransformMomentum,
		Relevance: "Economic cycle - China manufacturing", Classes: tags(m.TagEquityAsiaExJapan, m.TagEquityEmerging)},
	{Code: "WB_US_GDP_GROWTH", Name: "US GDP Growth (World Bank)", Description: "Annual real GDP growth, United States",
		Provider: m.ProviderWorldBank, NativeID: "USA/NY.GDP.MKTP.KD.ZG", Frequency: m.Annual, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - long run US growth", Classes: tags(m.TagRiskIndicator)},
	{Code: "WB_EU_GDP_GROWTH", Name: "Euro Area GDP Growth (World Bank)", Description: "Annual real GDP growth, euro area",
		Provider: m.ProviderWorldBank, NativeID: "EMU/NY.GDP.MKTP.KD.ZG", Frequency: m.Annual, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - long run euro area growth", Classes: tags(m.TagRiskIndicator)},
	{Code: "WB_CN_GDP_GROWTH", Name: "China GDP Growth (World Bank)", Description: "Annual real GDP growth, China",
		Provider: m.ProviderWorldBank, NativeID: "CHN/NY.GDP.MKTP.KD.ZG", Frequency: m.Annual, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - long run China growth", Classes: tags(m.TagRiskIndicator)},
	{Code: "WB_US_INFLATION", Name: "US Inflation (World Bank)", Description: "Annual consumer price inflation, United States",
		Provider: m.ProviderWorldBank, NativeID: "USA/FP.CPI.TOTL.ZG", Frequency: m.Annual, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - long run US inflation", Classes: tags(m.TagRiskIndicator)},
	{Code: "WB_EU_INFLATION", Name: "Euro Area Inflation (World Bank)", Description: "Annual consumer price inflation, euro area",
		Provider: m.ProviderWorldBank, NativeID: "EMU/FP.CPI.TOTL.ZG", Frequency: m.Annual, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - long run euro area inflation", Classes: tags(m.TagRiskIndicator)},
	{Code: "WB_US_UNEMPLOYMENT", Name: "US Unemployment (World Bank)", Description: "Annual unemployment rate, United States",
		Provider: m.ProviderWorldBank, NativeID: "USA/SL.UEM.TOTL.ZS", Frequency: m.Annual, Unit: "%", Transformation: m.TransformNone,
		Relevance: "Economic cycle - long run US labour market", Classes: tags(m.TagRiskIndicator)},
}

var fx = []m.VariableDefinition{
	{Code: "FX_EURUSD", Name: "EUR/USD Exchange Rate", Description: "Euro against US dollar",
		Provider: m.ProviderFRED, NativeID: "DEXUSEU", Frequency: m.Daily, Unit: "USD per 1 EUR", Transformation: m.TransformNone,
		Relevance: "Conversion factor and carry", Classes: tags(m.TagCcyEUR, m.TagEquityEmerging, m.TagEmergingDebt)},
	{Code: "FX_GBPUSD", Name: "GBP/USD Exchange Rate", Description: "Pound sterling against US dollar",
		Provider: m.ProviderFRED, NativeID: "DEXUSUK", Frequency: m.Daily, Unit: "USD per 1 GBP", Transformation: m.TransformNone,
		Relevance: "Conversion factor", Classes: tags(m.TagCcyGBP)},
	{Code: "FX_USDJPY", Name: "USD/JPY Exchange Rate", Description: "US dollar against yen",
		Provider: m.ProviderFRED, NativeID: "DEXJPUS", Frequency: m.Daily, Unit: "JPY per 1 USD", Transformation: m.TransformNone,
		Relevance: "Conversion factor and carry", Classes: tags(m.TagCcyJPY)},
	{Code: "FX_USDCHF", Name: "USD/CHF Exchange Rate", Description: "US dollar against Swiss franc",
		Provider: m.ProviderFRED, NativeID: "DEXSZUS", Frequency: m.Daily, Unit: "CHF per 1 USD", Transformation: m.TransformNone,
		Relevance: "Conversion factor", Classes: tags(m.TagCcyCHF)},
}

// DefaultDefinitions returns the built-in definitions, market risk first,
// then macro, then FX.
func DefaultDefinitions() []m.VariableDefinition {
	out := make([]m.VariableDefinition, 0, len(marketRisk)+len(macro)+len(fx))
	for _, group := range []struct {
		defs []m.VariableDefinition
		cat  m.Category
	}{
		{marketRisk, m.CategoryMarketRisk},
		{macro, m.CategoryMacro},
		{fx, m.CategoryFX},
	} {
		for _, d := range group.defs {
			d.Category = group.cat
			out = append(out, d)
		}
	}
	return out
}

// Default builds the built-in catalog.
func Default() (*Catalog, error) {
	return New(DefaultDefinitions())
}
