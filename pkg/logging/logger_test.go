package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)
	logger.Info().Str("region", "us-south").Msg("fetched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "us-south", entry["region"])
	assert.Equal(t, "fetched", entry["message"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), tt.input)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	got := FromContext(ctx)
	require.NotNil(t, got)

	got.Info().Msg("via context")
	assert.Contains(t, buf.String(), "via context")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
	assert.Equal(t, Default(), FromContext(nil)) //nolint:staticcheck // nil context fallback is the contract
}

func TestWithRegionAddsField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	ctx = WithRegion(ctx, "jp-tok")
	Ctx(ctx).Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "jp-tok", entry["region"])
}

func TestContextFieldsAccumulate(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	ctx = WithOperation(ctx, "fetch_all")
	ctx = WithRegion(ctx, "eu-de")
	ctx = WithModel(ctx, "ibm/granite-3-8b-instruct")
	ctx = WithField(ctx, "attempt", 1)
	Ctx(ctx).Info().Msg("scoped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetch_all", entry["operation"])
	assert.Equal(t, "eu-de", entry["region"])
	assert.Equal(t, "ibm/granite-3-8b-instruct", entry["model_id"])
	assert.Equal(t, float64(1), entry["attempt"])
}
