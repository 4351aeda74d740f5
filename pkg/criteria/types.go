// Package criteria maps generic Document AI entities onto structured
// engineering design criteria.
//
// Classification is driven by a declarative taxonomy table (label pattern to
// category) so the pattern list can be tested and extended without touching
// the mapper. Numeric values keep their raw magnitude and unit string
// verbatim; no unit conversion is performed.
package criteria

import (
	"time"

	"github.com/critex/critex/pkg/docai"
)

// LoadSpecification is an engineering load found in the document.
// Fields absent from the source stay unset.
type LoadSpecification struct {
	LoadType    string             `json:"load_type"`
	Magnitude   float64            `json:"magnitude,omitempty"`
	Unit        string             `json:"unit,omitempty"`
	Description string             `json:"description,omitempty"`
	Confidence  float64            `json:"confidence"`
	Page        int                `json:"page"`
	Box         *docai.BoundingBox `json:"bounding_box,omitempty"`
}

// SeismicForce holds seismic design parameters.
type SeismicForce struct {
	Magnitude   float64            `json:"magnitude,omitempty"`
	Unit        string             `json:"unit,omitempty"`
	Description string             `json:"description,omitempty"`
	Confidence  float64            `json:"confidence"`
	Page        int                `json:"page"`
	Box         *docai.BoundingBox `json:"bounding_box,omitempty"`
}

// DesignVehicle is a vehicle loading specification.
type DesignVehicle struct {
	AxleLoads   []float64          `json:"axle_loads,omitempty"`
	Unit        string             `json:"unit,omitempty"`
	Description string             `json:"description,omitempty"`
	Confidence  float64            `json:"confidence"`
	Page        int                `json:"page"`
	Box         *docai.BoundingBox `json:"bounding_box,omitempty"`
}

// DesignCrane is a crane loading specification.
type DesignCrane struct {
	Capacity    float64            `json:"capacity,omitempty"`
	Unit        string             `json:"unit,omitempty"`
	Description string             `json:"description,omitempty"`
	Confidence  float64            `json:"confidence"`
	Page        int                `json:"page"`
	Box         *docai.BoundingBox `json:"bounding_box,omitempty"`
}

// TableData is a detected table plus the path of its saved crop.
type TableData struct {
	ID         string             `json:"table_id"`
	Page       int                `json:"page"`
	HeaderRows [][]string         `json:"headers,omitempty"`
	Rows       [][]string         `json:"rows,omitempty"`
	Confidence float64            `json:"confidence"`
	Box        *docai.BoundingBox `json:"bounding_box,omitempty"`
	CropFile   string             `json:"crop_file,omitempty"`
}

// ImageData is a detected figure plus the path of its saved crop.
type ImageData struct {
	ID         string             `json:"image_id"`
	Page       int                `json:"page"`
	Label      string             `json:"label,omitempty"`
	Confidence float64            `json:"confidence"`
	Box        *docai.BoundingBox `json:"bounding_box,omitempty"`
	CropFile   string             `json:"crop_file,omitempty"`
}

// UnclassifiedEntity is retained for auditability when no taxonomy rule
// matches an entity label.
type UnclassifiedEntity struct {
	Label      string  `json:"label"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Page       int     `json:"page"`
}

// DocumentMetadata describes the source document and the mapping outcome.
type DocumentMetadata struct {
	Filename      string               `json:"filename"`
	PageCount     int                  `json:"page_count"`
	ProcessedAt   time.Time            `json:"processed_at"`
	Processor     string               `json:"processor,omitempty"`
	EntityCount   int                  `json:"entity_count"`
	LowConfidence int                  `json:"low_confidence_count"`
	Unclassified  []UnclassifiedEntity `json:"unclassified,omitempty"`
}

// DesignCriteria is the structured output of one extraction. It is produced
// once per completed job and never mutated afterwards, only serialized.
type DesignCriteria struct {
	Loads          []LoadSpecification `json:"loads"`
	SeismicForces  []SeismicForce      `json:"seismic_forces"`
	DesignVehicles []DesignVehicle     `json:"design_vehicles"`
	DesignCranes   []DesignCrane       `json:"design_cranes"`
	Tables         []TableData         `json:"tables"`
	Images         []ImageData         `json:"images"`
	Metadata       DocumentMetadata    `json:"metadata"`
	RawText        string              `json:"raw_text,omitempty"`
}
