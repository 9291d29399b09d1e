// Package genfile reads generator files: declarative descriptions of a
// batch of labels plus the page and label geometry to print them with.
//
// A generator file is JSON or TOML, picked by file extension. The JSON
// form:
//
//	{
//	  "labels": [
//	    {"parts": ["3005"]},
//	    {"parts": ["3007", "4202"]},
//	    {"text": "Mini figures"}
//	  ],
//	  "page_size": [210, 297],
//	  "page_margins": [15, 15, 15, 15],
//	  "label_size": [60, 25],
//	  "label_margins": [2, 4, 2, 4],
//	  "spacing": 2,
//	  "dpi": 300,
//	  "dot_size": 1.5
//	}
//
// All geometry values are millimeters; margins are given in top, right,
// bottom, left order. Every field except labels is optional and falls
// back to the defaults above.
package genfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bricklabels/pkg/errors"
	"github.com/matzehuels/bricklabels/pkg/units"
)

// Default geometry applied when a generator file omits the corresponding field.
var (
	DefaultPageSize     = [2]float64{210, 297} // A4 portrait
	DefaultPageMargins  = [4]float64{15, 15, 15, 15}
	DefaultLabelSize    = [2]float64{60, 25}
	DefaultLabelMargins = [4]float64{2, 4, 2, 4}
)

const (
	DefaultSpacing = 2.0
	DefaultDPI     = 300
	DefaultDotSize = 1.5
)

// LabelSpec describes one label: a list of catalog part numbers whose
// images share the label, and/or a text caption.
type LabelSpec struct {
	Parts []string `json:"parts,omitempty" toml:"parts"`
	Text  string   `json:"text,omitempty" toml:"text"`
}

// File is a parsed generator file.
type File struct {
	Labels       []LabelSpec `json:"labels" toml:"labels"`
	PageSize     [2]float64  `json:"page_size" toml:"page_size"`
	PageMargins  [4]float64  `json:"page_margins" toml:"page_margins"` // top, right, bottom, left
	LabelSize    [2]float64  `json:"label_size" toml:"label_size"`
	LabelMargins [4]float64  `json:"label_margins" toml:"label_margins"` // top, right, bottom, left
	Spacing      float64     `json:"spacing" toml:"spacing"`
	DPI          int         `json:"dpi" toml:"dpi"`
	DotSize      float64     `json:"dot_size" toml:"dot_size"`
}

// Default returns a File with all geometry fields at their defaults and
// no labels.
func Default() *File {
	return &File{
		PageSize:     DefaultPageSize,
		PageMargins:  DefaultPageMargins,
		LabelSize:    DefaultLabelSize,
		LabelMargins: DefaultLabelMargins,
		Spacing:      DefaultSpacing,
		DPI:          DefaultDPI,
		DotSize:      DefaultDotSize,
	}
}

// LabelMarginsMM returns the label margins as a units.Margins value.
func (f *File) LabelMarginsMM() units.Margins {
	return units.Margins{
		Top:    f.LabelMargins[0],
		Right:  f.LabelMargins[1],
		Bottom: f.LabelMargins[2],
		Left:   f.LabelMargins[3],
	}
}

// PageMarginsMM returns the page margins as a units.Margins value.
func (f *File) PageMarginsMM() units.Margins {
	return units.Margins{
		Top:    f.PageMargins[0],
		Right:  f.PageMargins[1],
		Bottom: f.PageMargins[2],
		Left:   f.PageMargins[3],
	}
}

// Load reads and parses the generator file at path. The format is chosen
// by extension: .json or .toml.
func Load(path string) (*File, error) {
	if err := errors.ValidateGenfilePath(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "generator file %s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGenfile, err, "read %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return Parse(data, FormatJSON)
	case ".toml":
		return Parse(data, FormatTOML)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported,
			"unsupported generator file extension %q (use .json or .toml)", ext)
	}
}

// Format identifies a generator file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Parse decodes a generator file from data, applies defaults for omitted
// fields, and validates the result.
func Parse(data []byte, format Format) (*File, error) {
	f := Default()
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGenfile, err, "parse JSON generator file")
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGenfile, err, "parse TOML generator file")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported generator file format %q", format)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the file for structural problems: no labels, labels with
// neither parts nor text, invalid part numbers, or impossible geometry.
func (f *File) Validate() error {
	if len(f.Labels) == 0 {
		return errors.New(errors.ErrCodeInvalidGenfile, "generator file defines no labels")
	}
	for i, spec := range f.Labels {
		if len(spec.Parts) == 0 && spec.Text == "" {
			return errors.New(errors.ErrCodeInvalidGenfile,
				"label %d defines neither parts nor text", i+1)
		}
		for _, num := range spec.Parts {
			if err := errors.ValidatePartNumber(num); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidGenfile, err, "label %d", i+1)
			}
		}
	}

	if f.PageSize[0] <= 0 || f.PageSize[1] <= 0 {
		return errors.New(errors.ErrCodeInvalidGenfile, "page size must be positive")
	}
	if f.LabelSize[0] <= 0 || f.LabelSize[1] <= 0 {
		return errors.New(errors.ErrCodeInvalidGenfile, "label size must be positive")
	}
	if f.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidGenfile, "dpi must be positive")
	}
	if f.DotSize <= 0 {
		return errors.New(errors.ErrCodeInvalidGenfile, "dot size must be positive")
	}
	if f.Spacing < 0 {
		return errors.New(errors.ErrCodeInvalidGenfile, "spacing cannot be negative")
	}
	return nil
}

// FormatInfo is a human-readable description of the generator file format,
// printed by `bricklabels genfile info`.
const FormatInfo = `The generator file describes part numbers and/or text plus page and label
settings, in JSON or TOML (chosen by file extension).

Required:
    labels                                  List of label definitions.
      parts: [string, ...]                  Part numbers printed on one label.
      ...and/or:
      text: string                          Text to print on the label.

Optional:
    page_size: [w, h]                       Page size in mm.
                                            (Default: 210, 297)
    page_margins: [t, r, b, l]              Page margins in mm.
                                            (Default: 15, 15, 15, 15)
    label_size: [w, h]                      Size of each label in mm.
                                            (Default: 60, 25)
    label_margins: [t, r, b, l]             Label margins in mm.
                                            (Default: 2, 4, 2, 4)
    spacing: number                         Spacing between images in mm.
                                            (Default: 2)
    dpi: int                                Resolution.
                                            (Default: 300)
    dot_size: number                        Diameter in mm of the dots printed
                                            when not all images fit a label.
                                            (Default: 1.5)

Example (JSON):
    {
        "labels": [
            {"parts": ["3005"]},
            {"parts": ["3007", "4202"]},
            {"text": "Mini figures"}
        ],
        "page_margins": [10, 10, 10, 10],
        "label_size": [80, 35],
        "label_margins": [5, 8, 5, 8],
        "spacing": 5,
        "dpi": 600
    }
`

// Sample is a ready-to-edit generator file written by `bricklabels genfile init`.
const Sample = `{
    "labels": [
        {"parts": ["3005"]},
        {"parts": ["3007", "4202"]},
        {"text": "Mini figures"}
    ],
    "label_size": [60, 25],
    "spacing": 2,
    "dpi": 300
}
`
