package mapping

import (
	"sort"
	"strings"

	"macroflow/models"
)

// Classification is the typed view of an instrument's descriptive record.
type Classification struct {
	AssetType AssetType
	Geography Geography
	Currency  string
	Segment   Segment
}

type AssetType int

const (
	AssetUnknown AssetType = iota
	AssetEquity
	AssetFixedIncome
	AssetMonetary
	AssetAlternatives
)

type Geography int

const (
	GeoUnknown Geography = iota
	GeoUSA
	GeoEurope
	GeoGlobal
	GeoAsiaExJapan
	GeoEmerging
	GeoJapan
)

// Segment is the fixed income sub-class taken from the L1 classification.
type Segment int

const (
	SegmentNone Segment = iota
	SegmentGovernment
	SegmentCorporate
	SegmentHighYield
	SegmentEmerging
)

var assetTypeLabels = map[string]AssetType{
	"equities":       AssetEquity,
	"equity":         AssetEquity,
	"renta variable": AssetEquity,
	"fixed income":   AssetFixedIncome,
	"renta fija":     AssetFixedIncome,
	"monetary":       AssetMonetary,
	"monetario":      AssetMonetary,
	"money market":   AssetMonetary,
	"alternatives":   AssetAlternatives,
	"alternativos":   AssetAlternatives,
}

var geographyLabels = map[string]Geography{
	"usa":              GeoUSA,
	"us":               GeoUSA,
	"united states":    GeoUSA,
	"europe":           GeoEurope,
	"europa":           GeoEurope,
	"eurozone":         GeoEurope,
	"global":           GeoGlobal,
	"asia ex-japan":    GeoAsiaExJapan,
	"asia ex japan":    GeoAsiaExJapan,
	"emerging markets": GeoEmerging,
	"emergentes":       GeoEmerging,
	"japan":            GeoJapan,
}

// segmentMarkers are matched as substrings of the L1 label, in order.
var segmentMarkers = []struct {
	marker  string
	segment Segment
}{
	{"gobierno", SegmentGovernment},
	{"government", SegmentGovernment},
	{"municipal", SegmentGovernment},
	{"corporativa", SegmentCorporate},
	{"corporate", SegmentCorporate},
	{"high yield", SegmentHighYield},
	{"preferentes", SegmentHighYield},
	{"internacional", SegmentHighYield},
	{"emergente", SegmentEmerging},
	{"emerging", SegmentEmerging},
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Classify derives the typed classification of an instrument.
func Classify(inst models.Instrument) Classification {
	c := Classification{
		AssetType: assetTypeLabels[normalizeLabel(inst.AssetType)],
		Geography: geographyLabels[normalizeLabel(inst.Geography)],
		Currency:  strings.ToUpper(strings.TrimSpace(inst.Currency)),
	}
	if c.AssetType == AssetFixedIncome {
		l1 := normalizeLabel(inst.ClassificationL1)
		for _, m := range segmentMarkers {
			if strings.Contains(l1, m.marker) {
				c.Segment = m.segment
				break
			}
		}
	}
	return c
}

var currencyTags = map[string]models.ClassTag{
	"USD": models.TagCcyUSD,
	"EUR": models.TagCcyEUR,
	"GBP": models.TagCcyGBP,
	"CHF": models.TagCcyCHF,
	"JPY": models.TagCcyJPY,
}

// Tags returns the derived tag set, sorted. It contains one tag per known
// dimension plus the segment tags the allocation rules key on.
func (c Classification) Tags() []models.ClassTag {
	set := make(map[models.ClassTag]struct{})
	add := func(t models.ClassTag) { set[t] = struct{}{} }

	switch c.AssetType {
	case AssetEquity:
		add(models.TagEquity)
	case AssetFixedIncome:
		add(models.TagFixedIncome)
	case AssetMonetary:
		add(models.TagMonetary)
	case AssetAlternatives:
		add(models.TagAlternatives)
	}
	switch c.Geography {
	case GeoUSA:
		add(models.TagGeoUSA)
	case GeoEurope:
		add(models.TagGeoEurope)
	case GeoGlobal:
		add(models.TagGeoGlobal)
	case GeoAsiaExJapan:
		add(models.TagGeoAsiaExJapan)
	case GeoEmerging:
		add(models.TagGeoEmerging)
	case GeoJapan:
		add(models.TagGeoJapan)
	}
	if t, ok := currencyTags[c.Currency]; ok {
		add(t)
	}
	for _, t := range c.segmentTags() {
		add(t)
	}

	out := make([]models.ClassTag, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c Classification) segmentTags() []models.ClassTag {
	eur := c.Currency == "EUR"
	switch c.AssetType {
	case AssetEquity:
		switch c.Geography {
		case GeoUSA:
			return []models.ClassTag{models.TagEquityUSA}
		case GeoEurope:
			return []models.ClassTag{models.TagEquityEurope}
		case GeoGlobal:
			return []models.ClassTag{models.TagEquityGlobal}
		case GeoAsiaExJapan:
			return []models.ClassTag{models.TagEquityAsiaExJapan}
		case GeoEmerging:
			return []models.ClassTag{models.TagEquityEmerging}
		}
	case AssetFixedIncome:
		switch c.Segment {
		case SegmentGovernment:
			if eur || c.Geography == GeoEurope {
				return []models.ClassTag{models.TagGovernmentEUR}
			}
			if c.Currency == "USD" || c.Geography == GeoUSA {
				return []models.ClassTag{models.TagGovernmentUSD}
			}
		case SegmentCorporate:
			if eur {
				return []models.ClassTag{models.TagCorporateEUR}
			}
			return []models.ClassTag{models.TagCorporateUSD}
		case SegmentHighYield:
			if eur {
				return []models.ClassTag{models.TagHighYieldEUR}
			}
			return []models.ClassTag{models.TagHighYieldUSD}
		case SegmentEmerging:
			return []models.ClassTag{models.TagEmergingDebt}
		}
	case AssetMonetary:
		if eur {
			return []models.ClassTag{models.TagMonetaryEUR}
		}
		return []models.ClassTag{models.TagMonetaryUSD}
	}
	return nil
}
