package watsonx

import (
	"context"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/wxcompass/wxcompass/pkg/catalog"
	"github.com/wxcompass/wxcompass/pkg/logging"
)

// optionsTTL bounds how long a fetched model list is reused before the
// endpoint is asked again.
const optionsTTL = 5 * time.Minute

// OptionsRefresher backs the host's "refresh model dropdown on endpoint
// change" hook. Fetch failures never surface to the host: the fallback
// DefaultModels list is returned instead, mirroring the fetcher's
// isolated-failure contract.
type OptionsRefresher struct {
	fetcher *catalog.Fetcher
	cache   *gocache.Cache
}

// RefresherOption configures an OptionsRefresher.
type RefresherOption func(*OptionsRefresher)

// WithFetcher replaces the underlying catalog fetcher. Used by tests and
// hosts that tune the timeout.
func WithFetcher(fetcher *catalog.Fetcher) RefresherOption {
	return func(r *OptionsRefresher) {
		r.fetcher = fetcher
	}
}

// NewOptionsRefresher creates a refresher with the text-chat capability
// facet and a 5 minute per-endpoint cache.
func NewOptionsRefresher(opts ...RefresherOption) *OptionsRefresher {
	r := &OptionsRefresher{
		fetcher: catalog.NewFetcher(catalog.WithFilter(catalog.FilterTextChat)),
		cache:   gocache.New(optionsTTL, 2*optionsTTL),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ModelOptions returns the sorted active model IDs available at the given
// endpoint. On any fetch failure it logs the cause and returns
// DefaultModels. Successful lookups are cached per endpoint.
func (r *OptionsRefresher) ModelOptions(ctx context.Context, baseURL string) []string {
	if cached, ok := r.cache.Get(baseURL); ok {
		return cached.([]string)
	}

	region, err := catalog.NewRegion(baseURL)
	if err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Str("endpoint", baseURL).
			Msg("Invalid endpoint URL, using default models")
		return DefaultModels
	}

	set, err := r.fetcher.FetchRegion(ctx, region)
	if err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Str("endpoint", baseURL).
			Msg("Model fetch failed, using default models")
		return DefaultModels
	}

	options := make([]string, 0, len(set))
	for id := range set {
		options = append(options, id)
	}
	sort.Strings(options)

	r.cache.Set(baseURL, options, gocache.DefaultExpiration)
	return options
}

// OnURLChange refreshes the config's model options after its endpoint
// changed and returns the new option list. When the currently selected
// model is no longer offered, the selection moves to the first option.
func (r *OptionsRefresher) OnURLChange(ctx context.Context, cfg *Config) []string {
	options := r.ModelOptions(ctx, cfg.URL)

	selected := false
	for _, option := range options {
		if option == cfg.ModelName {
			selected = true
			break
		}
	}
	if !selected && len(options) > 0 {
		cfg.ModelName = options[0]
	}

	logging.Ctx(ctx).Info().
		Str("endpoint", cfg.URL).
		Int("option_count", len(options)).
		Str("model_name", cfg.ModelName).
		Msg("Refreshed model options")

	return options
}
