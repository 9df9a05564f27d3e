package catalog

import (
	"fmt"
	"sort"

	"github.com/wxcompass/wxcompass/pkg/errors"
)

// Result is the read-only outcome of reconciling per-region model sets
// against a reference region. All maps are keyed by region short code and
// all slices are sorted ascending.
type Result struct {
	// Reference is the short code of the reference region.
	Reference string `json:"reference" yaml:"reference"`

	// Counts holds the active model count per region.
	Counts map[string]int `json:"counts" yaml:"counts"`

	// Missing lists, per non-reference region, the model IDs the reference
	// region has and that region lacks.
	Missing map[string][]string `json:"missing" yaml:"missing"`

	// Unique lists, per non-reference region, the model IDs that region has
	// and the reference region lacks.
	Unique map[string][]string `json:"unique" yaml:"unique"`

	// Intersection lists the model IDs present in every region.
	Intersection []string `json:"intersection" yaml:"intersection"`

	// ModelRegions maps every model ID to the short codes of the regions
	// carrying it.
	ModelRegions map[string][]string `json:"model_regions" yaml:"model_regions"`
}

// Reconcile compares per-region active model sets against the reference
// region. It is pure and deterministic: permuting the input regions does
// not change the result.
//
// An empty sets mapping or a reference region absent from it is caller
// misuse and fails fast with a ValidationError rather than producing a
// silently empty comparison.
func Reconcile(sets Sets, reference Region) (*Result, error) {
	if len(sets) == 0 {
		return nil, errors.NewValidationError("sets", nil, "no region sets to reconcile")
	}

	refSet, ok := sets[reference]
	if !ok {
		return nil, errors.NewValidationError("reference", reference.Code,
			"reference region not present in fetched sets")
	}

	// Counts, Missing and Unique key on short codes, so two regions
	// sharing a code would silently overwrite each other.
	codes := make(map[string]string, len(sets))
	for region := range sets {
		if prev, dup := codes[region.Code]; dup {
			return nil, errors.NewValidationError("sets", region.Code,
				fmt.Sprintf("short code used by both %s and %s", prev, region.BaseURL))
		}
		codes[region.Code] = region.BaseURL
	}

	result := &Result{
		Reference:    reference.Code,
		Counts:       make(map[string]int, len(sets)),
		Missing:      make(map[string][]string, len(sets)-1),
		Unique:       make(map[string][]string, len(sets)-1),
		ModelRegions: make(map[string][]string),
	}

	for region, set := range sets {
		result.Counts[region.Code] = len(set)

		for id := range set {
			result.ModelRegions[id] = append(result.ModelRegions[id], region.Code)
		}

		if region == reference {
			continue
		}

		result.Missing[region.Code] = difference(refSet, set)
		result.Unique[region.Code] = difference(set, refSet)
	}

	result.Intersection = intersection(sets)

	for id := range result.ModelRegions {
		sort.Strings(result.ModelRegions[id])
	}

	return result, nil
}

// difference returns the sorted ids present in a but not in b.
func difference(a, b ModelSet) []string {
	out := make([]string, 0)
	for id := range a {
		if !b.Contains(id) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// intersection returns the sorted ids present in every set.
func intersection(sets Sets) []string {
	var smallest ModelSet
	for _, set := range sets {
		if smallest == nil || len(set) < len(smallest) {
			smallest = set
		}
	}

	out := make([]string, 0, len(smallest))
	for id := range smallest {
		inAll := true
		for _, set := range sets {
			if !set.Contains(id) {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
