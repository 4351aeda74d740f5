package criteria

import (
	"strings"

	"golang.org/x/text/cases"
)

// Category is the typed bucket an entity label maps to.
type Category int

const (
	CategoryLoad Category = iota
	CategorySeismic
	CategoryVehicle
	CategoryCrane
)

func (c Category) String() string {
	switch c {
	case CategoryLoad:
		return "load"
	case CategorySeismic:
		return "seismic_force"
	case CategoryVehicle:
		return "design_vehicle"
	case CategoryCrane:
		return "design_crane"
	default:
		return "unknown"
	}
}

// Rule maps a normalized label pattern to a category.
type Rule struct {
	Pattern  string
	Category Category
}

// DefaultTaxonomy is the label pattern table, in priority order: when a label
// matches more than one rule the earliest declaration wins. Exact matches are
// tried against the whole table before prefix matches. Patterns follow the
// processor's entity type names.
var DefaultTaxonomy = []Rule{
	{"design_vehicle", CategoryVehicle},
	{"design_crane", CategoryCrane},
	{"seismic_load", CategoryLoad}, // a load despite the seismic_ prefix
	{"seismic", CategorySeismic},
	{"base_shear", CategorySeismic},
	{"live_load", CategoryLoad},
	{"dead_load", CategoryLoad},
	{"wind_load", CategoryLoad},
	{"snow_load", CategoryLoad},
	{"hydrostatic_load", CategoryLoad},
	{"wave_load", CategoryLoad},
	{"impact_load", CategoryLoad},
	{"thermal_load", CategoryLoad},
	{"design_loads", CategoryLoad},
	{"design_load", CategoryLoad},
	{"load", CategoryLoad},
	{"vehicle", CategoryVehicle},
	{"crane", CategoryCrane},
}

var labelFolder = cases.Fold()

// NormalizeLabel folds case and collapses separators so "Live Load" and
// "LIVE_LOAD" both become "live_load".
func NormalizeLabel(label string) string {
	folded := labelFolder.String(label)
	var b strings.Builder
	lastSep := true
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSep = false
		default:
			if !lastSep {
				b.WriteByte('_')
				lastSep = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Classify resolves a raw entity label to a category via the taxonomy.
// Exact matches take precedence over prefix matches; within each pass the
// first rule in declaration order wins.
func Classify(taxonomy []Rule, label string) (Category, bool) {
	key := NormalizeLabel(label)
	if key == "" {
		return 0, false
	}
	for _, r := range taxonomy {
		if key == r.Pattern {
			return r.Category, true
		}
	}
	for _, r := range taxonomy {
		if strings.HasPrefix(key, r.Pattern) {
			return r.Category, true
		}
	}
	return 0, false
}
