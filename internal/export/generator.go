// Package export serializes the week plan to user-facing files and
// applies the converse import. Formats mirror the product's export
// menu: JSON (lossless, re-importable), CSV (one row per entry) and a
// printable PDF summary.
package export

import (
	"fmt"
	"time"

	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/nutrition"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/plan"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/recipes"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV, FormatPDF:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// ContentType returns the MIME type used when archiving the export.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Generator renders week plans. The lookup supplies cached recipe
// records for name and nutrition enrichment; unresolved entries render
// with their raw id and zero nutrition.
type Generator struct {
	look nutrition.Lookup
}

func NewGenerator(look nutrition.Lookup) *Generator {
	if look == nil {
		look = func(string) *recipes.Recipe { return nil }
	}
	return &Generator{look: look}
}

// Generate renders w in the requested format.
func (g *Generator) Generate(format Format, w *plan.WeekPlan, now time.Time) ([]byte, error) {
	switch format {
	case FormatJSON:
		return JSON(w, now)
	case FormatCSV:
		return g.CSV(w)
	case FormatPDF:
		return g.PDF(w)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
