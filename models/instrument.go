package models

// ClassTag is an enumerated classification tag. Instruments derive a set of
// tags; definitions declare the tags they apply to.
type ClassTag string

// TagAll marks a definition that applies to every classified instrument.
const TagAll ClassTag = "all"

// Dimension tags, one per classification attribute.
const (
	TagEquity       ClassTag = "asset.equity"
	TagFixedIncome  ClassTag = "asset.fixed_income"
	TagMonetary     ClassTag = "asset.monetary"
	TagAlternatives ClassTag = "asset.alternatives"

	TagGeoUSA         ClassTag = "geo.usa"
	TagGeoEurope      ClassTag = "geo.europe"
	TagGeoGlobal      ClassTag = "geo.global"
	TagGeoAsiaExJapan ClassTag = "geo.asia_ex_japan"
	TagGeoEmerging    ClassTag = "geo.emerging"
	TagGeoJapan       ClassTag = "geo.japan"

	TagCcyUSD ClassTag = "ccy.usd"
	TagCcyEUR ClassTag = "ccy.eur"
	TagCcyGBP ClassTag = "ccy.gbp"
	TagCcyCHF ClassTag = "ccy.chf"
	TagCcyJPY ClassTag = "ccy.jpy"
)

// Segment tags combine dimensions the way allocation rules need them.
const (
	TagEquityUSA         ClassTag = "equity.usa"
	TagEquityEurope      ClassTag = "equity.europe"
	TagEquityGlobal      ClassTag = "equity.global"
	TagEquityAsiaExJapan ClassTag = "equity.asia_ex_japan"
	TagEquityEmerging    ClassTag = "equity.emerging"

	TagGovernmentEUR ClassTag = "govt.eur"
	TagGovernmentUSD ClassTag = "govt.usd"
	TagCorporateEUR  ClassTag = "corp.eur"
	TagCorporateUSD  ClassTag = "corp.usd"
	TagHighYieldEUR  ClassTag = "hy.eur"
	TagHighYieldUSD  ClassTag = "hy.usd"
	TagEmergingDebt  ClassTag = "em_debt"

	TagMonetaryEUR ClassTag = "money.eur"
	TagMonetaryUSD ClassTag = "money.usd"
)

// TagRiskIndicator marks series consumed by risk scoring but not assigned to
// individual instruments.
const TagRiskIndicator ClassTag = "gri"

// Instrument is one member of the investable universe.
type Instrument struct {
	Ticker           string `yaml:"ticker"`
	Name             string `yaml:"name"`
	AssetType        string `yaml:"asset_type"`
	Geography        string `yaml:"geography"`
	Currency         string `yaml:"currency"`
	ClassificationL1 string `yaml:"classification_l1"`
}
