package catalog

import (
	"time"

	"github.com/agentstation/utc"
)

// API constants for GET {region}/ml/v1/foundation_model_specs.
const (
	// SpecsPath is the foundation model specs endpoint path.
	SpecsPath = "/ml/v1/foundation_model_specs"

	// APIVersion is the watsonx.ai API version date sent on every request.
	APIVersion = "2024-09-16"
)

// Filter selects a capability facet of the model catalog.
type Filter string

// Capability facets recognized by the specs endpoint.
const (
	FilterTextChat  Filter = "function_text_chat"
	FilterEmbedding Filter = "function_embedding"
)

// QueryValue returns the filters query parameter for this facet. Withdrawn
// models are always excluded server-side; the lifecycle filter still runs
// client-side because deprecation is date-dependent.
func (f Filter) QueryValue() string {
	return string(f) + ",!lifecycle_withdrawn"
}

// Lifecycle event identifiers that mark a model as no longer usable once
// their start date has passed.
const (
	LifecycleDeprecated = "deprecated"
	LifecycleWithdrawn  = "withdrawn"
)

// LifecycleEntry is one dated status event on a model (general
// availability, deprecated, withdrawn, ...). StartDate is a date-only
// timestamp (YYYY-MM-DD) in the upstream payload.
type LifecycleEntry struct {
	ID        string   `json:"id"`
	StartDate utc.Time `json:"start_date"`
}

// InEffect reports whether the event's start date has passed as of the
// given time. An entry with no start date is treated as already in effect:
// a dated status we cannot place in time should exclude a model rather
// than silently keep it.
func (e LifecycleEntry) InEffect(asOf time.Time) bool {
	if e.StartDate.IsZero() {
		return true
	}
	return !e.StartDate.Time.After(asOf)
}

// ModelSpec is a single entry of the specs response. Only the fields the
// comparison needs are decoded; the rest of the payload is ignored.
type ModelSpec struct {
	ModelID   string           `json:"model_id"`
	Lifecycle []LifecycleEntry `json:"lifecycle"`
}

// ActiveAt reports whether the model is usable as of the given time:
// no deprecated or withdrawn lifecycle event is in effect. A model with no
// lifecycle entries is active.
func (m ModelSpec) ActiveAt(asOf time.Time) bool {
	return Active(m.Lifecycle, asOf)
}

// Active is the lifecycle filter: it returns false iff any entry with id
// deprecated or withdrawn has a start date on or before asOf.
func Active(lifecycle []LifecycleEntry, asOf time.Time) bool {
	for _, entry := range lifecycle {
		switch entry.ID {
		case LifecycleDeprecated, LifecycleWithdrawn:
			if entry.InEffect(asOf) {
				return false
			}
		}
	}
	return true
}
