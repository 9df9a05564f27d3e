package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxcompass/wxcompass/pkg/errors"
)

func mustRegion(t *testing.T, baseURL string) Region {
	t.Helper()
	region, err := NewRegion(baseURL)
	require.NoError(t, err)
	return region
}

func set(ids ...string) ModelSet {
	s := make(ModelSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func TestReconcileMissingUniqueIntersection(t *testing.T) {
	regionA := mustRegion(t, "https://us-south.ml.cloud.ibm.com")
	regionB := mustRegion(t, "https://eu-de.ml.cloud.ibm.com")

	sets := Sets{
		regionA: set("m1", "m2"),
		regionB: set("m2", "m3"),
	}

	result, err := Reconcile(sets, regionA)
	require.NoError(t, err)

	assert.Equal(t, "us-south", result.Reference)
	assert.Equal(t, map[string]int{"us-south": 2, "eu-de": 2}, result.Counts)
	assert.Equal(t, []string{"m1"}, result.Missing["eu-de"])
	assert.Equal(t, []string{"m3"}, result.Unique["eu-de"])
	assert.Equal(t, []string{"m2"}, result.Intersection)

	// The reference region is never diffed against itself.
	assert.NotContains(t, result.Missing, "us-south")
	assert.NotContains(t, result.Unique, "us-south")
}

func TestReconcileDisjointComplementary(t *testing.T) {
	regionA := mustRegion(t, "https://us-south.ml.cloud.ibm.com")
	regionB := mustRegion(t, "https://jp-tok.ml.cloud.ibm.com")

	refSet := set("a", "b", "c", "d")
	otherSet := set("c", "d", "e")
	sets := Sets{regionA: refSet, regionB: otherSet}

	result, err := Reconcile(sets, regionA)
	require.NoError(t, err)

	missing := result.Missing["jp-tok"]
	unique := result.Unique["jp-tok"]

	// missing ∪ (ref ∩ other) = ref, unique ∪ (ref ∩ other) = other,
	// and missing/unique never overlap.
	for _, id := range missing {
		assert.True(t, refSet.Contains(id))
		assert.False(t, otherSet.Contains(id))
	}
	for _, id := range unique {
		assert.True(t, otherSet.Contains(id))
		assert.False(t, refSet.Contains(id))
	}
	assert.Len(t, missing, len(refSet)-len(result.Intersection))
	assert.Len(t, unique, len(otherSet)-len(result.Intersection))
	assert.Equal(t, []string{"a", "b"}, missing)
	assert.Equal(t, []string{"e"}, unique)
	assert.Equal(t, []string{"c", "d"}, result.Intersection)
}

func TestReconcileIdempotent(t *testing.T) {
	regionA := mustRegion(t, "https://us-south.ml.cloud.ibm.com")
	regionB := mustRegion(t, "https://au-syd.ml.cloud.ibm.com")
	sets := Sets{
		regionA: set("m1", "m2", "m3"),
		regionB: set("m2"),
	}

	first, err := Reconcile(sets, regionA)
	require.NoError(t, err)
	second, err := Reconcile(sets, regionA)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReconcileModelRegionsAllRegions(t *testing.T) {
	regions := []Region{
		mustRegion(t, "https://us-south.ml.cloud.ibm.com"),
		mustRegion(t, "https://eu-de.ml.cloud.ibm.com"),
		mustRegion(t, "https://jp-tok.ml.cloud.ibm.com"),
	}

	sets := make(Sets, len(regions))
	for _, r := range regions {
		sets[r] = set("m1")
	}

	result, err := Reconcile(sets, regions[0])
	require.NoError(t, err)

	assert.Equal(t, []string{"m1"}, result.Intersection)
	assert.Equal(t, []string{"eu-de", "jp-tok", "us-south"}, result.ModelRegions["m1"])
}

func TestReconcileEmptySetsFailsFast(t *testing.T) {
	_, err := Reconcile(Sets{}, mustRegion(t, "https://us-south.ml.cloud.ibm.com"))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestReconcileUnknownReferenceFailsFast(t *testing.T) {
	regionA := mustRegion(t, "https://us-south.ml.cloud.ibm.com")
	regionB := mustRegion(t, "https://eu-de.ml.cloud.ibm.com")

	_, err := Reconcile(Sets{regionA: set("m1")}, regionB)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "eu-de")
}

func TestReconcileDuplicateCodesFailFast(t *testing.T) {
	regionA := Region{BaseURL: "http://127.0.0.1:1001", Code: "127"}
	regionB := Region{BaseURL: "http://127.0.0.1:1002", Code: "127"}

	_, err := Reconcile(Sets{regionA: set("m1"), regionB: set("m2")}, regionA)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "127")
}

func TestReconcileEmptyRegionSetParticipates(t *testing.T) {
	regionA := mustRegion(t, "https://us-south.ml.cloud.ibm.com")
	regionB := mustRegion(t, "https://eu-de.ml.cloud.ibm.com")

	sets := Sets{
		regionA: set("m1", "m2"),
		regionB: ModelSet{},
	}

	result, err := Reconcile(sets, regionA)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Counts["eu-de"])
	assert.Equal(t, []string{"m1", "m2"}, result.Missing["eu-de"])
	assert.Empty(t, result.Unique["eu-de"])
	assert.Empty(t, result.Intersection)
}
