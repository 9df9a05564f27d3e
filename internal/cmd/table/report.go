// Package table converts reconciliation results into the tabular sections
// of the comparison report.
package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wxcompass/wxcompass/pkg/catalog"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents one table: headers plus rows.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// Section is one titled table of the comparison report. EmptyNote is
// printed instead of the table when there are no rows.
type Section struct {
	Title     string
	Data      Data
	EmptyNote string
}

// ReportSections renders a reconciliation result into the five report
// sections: counts, missing vs reference, unique per region, the global
// intersection, and the model-to-regions index. The regions slice supplies
// the configured ordering for per-region rows.
func ReportSections(result *catalog.Result, regions []catalog.Region) []Section {
	return []Section{
		countsSection(result, regions),
		missingSection(result, regions),
		uniqueSection(result, regions),
		intersectionSection(result),
		modelRegionsSection(result),
	}
}

func countsSection(result *catalog.Result, regions []catalog.Region) Section {
	rows := make([][]string, 0, len(regions))
	for _, region := range regions {
		rows = append(rows, []string{region.Code, fmt.Sprintf("%d", result.Counts[region.Code])})
	}

	return Section{
		Title: "Active Models per Region",
		Data: Data{
			Headers:         []string{"Region", "Count"},
			Rows:            rows,
			ColumnAlignment: []Align{AlignDefault, AlignRight},
		},
	}
}

func missingSection(result *catalog.Result, regions []catalog.Region) Section {
	return Section{
		Title:     fmt.Sprintf("Models in %s but missing elsewhere", result.Reference),
		Data:      pairwiseData(result.Missing, regions),
		EmptyNote: "none",
	}
}

func uniqueSection(result *catalog.Result, regions []catalog.Region) Section {
	return Section{
		Title:     fmt.Sprintf("Models unique to each region (not in %s)", result.Reference),
		Data:      pairwiseData(result.Unique, regions),
		EmptyNote: "none",
	}
}

// pairwiseData flattens a region-to-ids mapping into (Region, Model ID)
// rows, regions in configured order, ids already sorted.
func pairwiseData(byRegion map[string][]string, regions []catalog.Region) Data {
	rows := make([][]string, 0)
	for _, region := range regions {
		for _, id := range byRegion[region.Code] {
			rows = append(rows, []string{region.Code, id})
		}
	}

	return Data{
		Headers: []string{"Region", "Model ID"},
		Rows:    rows,
	}
}

func intersectionSection(result *catalog.Result) Section {
	rows := make([][]string, 0, len(result.Intersection))
	for _, id := range result.Intersection {
		rows = append(rows, []string{id})
	}

	return Section{
		Title: "Models present in all regions",
		Data: Data{
			Headers: []string{"Model ID"},
			Rows:    rows,
		},
		EmptyNote: "none",
	}
}

func modelRegionsSection(result *catalog.Result) Section {
	ids := make([]string, 0, len(result.ModelRegions))
	for id := range result.ModelRegions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{id, strings.Join(result.ModelRegions[id], ", ")})
	}

	return Section{
		Title: "All models and their regions",
		Data: Data{
			Headers: []string{"Model ID", "Regions"},
			Rows:    rows,
		},
		EmptyNote: "none",
	}
}

// ModelsToTableData converts a flat model-id list to table format.
func ModelsToTableData(region string, ids []string) Data {
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{region, id})
	}

	return Data{
		Headers: []string{"Region", "Model ID"},
		Rows:    rows,
	}
}
