package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxcompass/wxcompass/pkg/catalog"
	"github.com/wxcompass/wxcompass/pkg/errors"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		input   string
		want    catalog.Filter
		wantErr bool
	}{
		{"chat", catalog.FilterTextChat, false},
		{"", catalog.FilterTextChat, false},
		{"embedding", catalog.FilterEmbedding, false},
		{"vision", "", true},
	}

	for _, tt := range tests {
		t.Run("filter_"+tt.input, func(t *testing.T) {
			got, err := parseFilter(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRegionsDefaults(t *testing.T) {
	regions, err := resolveRegions(nil)
	require.NoError(t, err)
	require.Len(t, regions, 4)
	assert.Equal(t, "us-south", regions[0].Code)
	assert.Equal(t, "au-syd", regions[3].Code)
}

func TestResolveRegionsFlags(t *testing.T) {
	regions, err := resolveRegions([]string{
		"https://eu-gb.ml.cloud.ibm.com",
		"https://ca-tor.ml.cloud.ibm.com",
	})
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "eu-gb", regions[0].Code)

	_, err = resolveRegions([]string{"not a url"})
	assert.Error(t, err)
}

func TestResolveReference(t *testing.T) {
	regions, err := resolveRegions(nil)
	require.NoError(t, err)

	ref, err := resolveReference(regions, "")
	require.NoError(t, err)
	assert.Equal(t, "us-south", ref.Code)

	ref, err = resolveReference(regions, "jp-tok")
	require.NoError(t, err)
	assert.Equal(t, "jp-tok", ref.Code)

	_, err = resolveReference(regions, "eu-gb")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestResolveFormatRejectsUnknown(t *testing.T) {
	original := globalFlags.Output
	defer func() { globalFlags.Output = original }()

	globalFlags.Output = "xml"
	_, err := resolveFormat()
	assert.Error(t, err)

	globalFlags.Output = "markdown"
	format, err := resolveFormat()
	require.NoError(t, err)
	assert.Equal(t, "markdown", string(format))
}
