package criteria

import (
	"fmt"
	"strings"
	"time"

	"github.com/critex/critex/pkg/docai"
)

// DefaultThreshold is the minimum entity confidence kept in typed output.
const DefaultThreshold = 0.5

// Options configures a mapping run. The zero value uses the default taxonomy
// and threshold; ProcessedAt is supplied by the caller so mapping stays a pure
// function of its inputs.
type Options struct {
	Taxonomy    []Rule
	Threshold   float64
	Filename    string
	Processor   string
	ProcessedAt time.Time
}

// knownLoadTypes are the load_type values carried through verbatim; any other
// matched load label maps to "other".
var knownLoadTypes = []string{
	"dead_load", "live_load", "wind_load", "snow_load", "seismic_load",
	"hydrostatic_load", "wave_load", "impact_load", "thermal_load",
}

// Map classifies the service result's entities through the taxonomy and
// assembles the structured design criteria. It performs no I/O and is
// deterministic: identical input and options yield an identical record.
//
// Entities below the confidence threshold are excluded from the typed lists
// but counted in the metadata; entities matching no rule are kept in the
// unclassified bucket.
func Map(res *docai.Result, opts Options) *DesignCriteria {
	taxonomy := opts.Taxonomy
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	dc := &DesignCriteria{
		RawText: res.Text,
		Metadata: DocumentMetadata{
			Filename:    opts.Filename,
			PageCount:   res.PageCount,
			ProcessedAt: opts.ProcessedAt,
			Processor:   opts.Processor,
		},
	}

	for _, e := range res.Entities {
		dc.Metadata.EntityCount++

		if e.Confidence < threshold {
			dc.Metadata.LowConfidence++
			continue
		}

		cat, ok := Classify(taxonomy, e.Label)
		if !ok {
			dc.Metadata.Unclassified = append(dc.Metadata.Unclassified, UnclassifiedEntity{
				Label:      e.Label,
				Text:       e.Text,
				Confidence: e.Confidence,
				Page:       e.Page,
			})
			continue
		}

		switch cat {
		case CategoryLoad:
			dc.Loads = append(dc.Loads, mapLoad(e))
		case CategorySeismic:
			dc.SeismicForces = append(dc.SeismicForces, mapSeismic(e))
		case CategoryVehicle:
			dc.DesignVehicles = append(dc.DesignVehicles, mapVehicle(e))
		case CategoryCrane:
			dc.DesignCranes = append(dc.DesignCranes, mapCrane(e))
		}
	}

	for i, t := range res.Tables {
		dc.Tables = append(dc.Tables, TableData{
			ID:         fmt.Sprintf("table_%d", i),
			Page:       t.Page,
			HeaderRows: t.HeaderRows,
			Rows:       t.BodyRows,
			Confidence: t.Confidence,
			Box:        t.Box,
		})
	}

	for i, f := range res.Figures {
		dc.Images = append(dc.Images, ImageData{
			ID:         fmt.Sprintf("image_%d", i),
			Page:       f.Page,
			Label:      f.Kind,
			Confidence: f.Confidence,
			Box:        f.Box,
		})
	}

	return dc
}

func mapLoad(e docai.Entity) LoadSpecification {
	load := LoadSpecification{
		LoadType:    loadTypeFor(e.Label),
		Description: e.Text,
		Confidence:  e.Confidence,
		Page:        e.Page,
		Box:         e.Box,
	}
	if v, unit, ok := parseMagnitude(e.Text); ok {
		load.Magnitude = v
		load.Unit = unit
	}
	return load
}

func mapSeismic(e docai.Entity) SeismicForce {
	sf := SeismicForce{
		Description: e.Text,
		Confidence:  e.Confidence,
		Page:        e.Page,
		Box:         e.Box,
	}
	if v, unit, ok := parseMagnitude(e.Text); ok {
		sf.Magnitude = v
		sf.Unit = unit
	}
	return sf
}

func mapVehicle(e docai.Entity) DesignVehicle {
	dv := DesignVehicle{
		Description: e.Text,
		Confidence:  e.Confidence,
		Page:        e.Page,
		Box:         e.Box,
	}
	if loads := parseNumbers(e.Text); len(loads) > 0 {
		dv.AxleLoads = loads
		dv.Unit = trailingUnit(e.Text)
	}
	return dv
}

func mapCrane(e docai.Entity) DesignCrane {
	dcr := DesignCrane{
		Description: e.Text,
		Confidence:  e.Confidence,
		Page:        e.Page,
		Box:         e.Box,
	}
	if v, unit, ok := parseMagnitude(e.Text); ok {
		dcr.Capacity = v
		dcr.Unit = unit
	}
	return dcr
}

func loadTypeFor(label string) string {
	key := NormalizeLabel(label)
	for _, t := range knownLoadTypes {
		if strings.HasPrefix(key, t) {
			return t
		}
	}
	return "other"
}
