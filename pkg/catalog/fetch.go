package catalog

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/wxcompass/wxcompass/internal/transport"
	"github.com/wxcompass/wxcompass/pkg/errors"
	"github.com/wxcompass/wxcompass/pkg/logging"
)

// ModelSet is the set of active model IDs fetched from one region.
type ModelSet map[string]struct{}

// Contains reports set membership.
func (s ModelSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Sets maps each region to its active model set.
type Sets map[Region]ModelSet

// Fetcher retrieves active model sets from region endpoints. The
// evaluation date for lifecycle filtering is fixed when the Fetcher is
// created, so every region in one run is filtered against the same date.
type Fetcher struct {
	client *transport.Client
	filter Filter
	asOf   time.Time
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFilter sets the capability facet to fetch. Defaults to FilterTextChat.
func WithFilter(filter Filter) FetcherOption {
	return func(f *Fetcher) {
		f.filter = filter
	}
}

// WithTimeout bounds each per-region request.
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.client = transport.New(transport.WithTimeout(timeout))
	}
}

// WithTransport replaces the transport client. Used by tests.
func WithTransport(client *transport.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithAsOf fixes the lifecycle evaluation date. Defaults to now.
func WithAsOf(asOf time.Time) FetcherOption {
	return func(f *Fetcher) {
		f.asOf = asOf
	}
}

// NewFetcher creates a Fetcher with a 10 second per-request timeout and
// the text-chat capability facet.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: transport.New(),
		filter: FilterTextChat,
		asOf:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AsOf returns the fixed lifecycle evaluation date for this run.
func (f *Fetcher) AsOf() time.Time {
	return f.asOf
}

// specsResponse is the decoded shape of the specs endpoint body.
type specsResponse struct {
	Resources []ModelSpec `json:"resources"`
}

// FetchRegion performs one GET against a single region and returns its
// active model set. One attempt, no retries; any failure is returned as a
// FetchError wrapping the cause.
func (f *Fetcher) FetchRegion(ctx context.Context, region Region) (ModelSet, error) {
	ctx = logging.WithRegion(ctx, region.Code)
	endpoint := region.BaseURL + SpecsPath

	query := url.Values{}
	query.Set("version", APIVersion)
	query.Set("filters", f.filter.QueryValue())

	logging.Ctx(ctx).Debug().
		Str("endpoint", endpoint).
		Str("filters", f.filter.QueryValue()).
		Msg("Fetching foundation model specs")

	resp, err := f.client.Get(ctx, endpoint, query)
	if err != nil {
		return nil, errors.WrapFetch(region.Code, endpoint, err)
	}

	var body specsResponse
	if err := transport.DecodeResponse(resp, region.Code, &body); err != nil {
		return nil, errors.WrapFetch(region.Code, endpoint, err)
	}

	set := make(ModelSet, len(body.Resources))
	for _, spec := range body.Resources {
		if spec.ModelID == "" {
			continue
		}
		if !spec.ActiveAt(f.asOf) {
			logging.Ctx(ctx).Debug().
				Str("model_id", spec.ModelID).
				Msg("Excluding deprecated or withdrawn model")
			continue
		}
		set[spec.ModelID] = struct{}{}
	}

	return set, nil
}

// regionModels carries one region's fetch outcome across the goroutine
// boundary.
type regionModels struct {
	region Region
	set    ModelSet
	err    error
}

// FetchAll fetches every region concurrently. A region's failure is
// isolated: it is logged and that region gets an empty set, so one bad
// endpoint never aborts the comparison. FetchAll returns once every fetch
// has completed or timed out.
func (f *Fetcher) FetchAll(ctx context.Context, regions []Region) Sets {
	ctx = logging.WithOperation(ctx, "fetch_all")
	logger := logging.Ctx(ctx)
	logger.Info().
		Int("region_count", len(regions)).
		Time("as_of", f.asOf).
		Msg("Fetching active models from all regions")

	var wg sync.WaitGroup
	resultChan := make(chan regionModels, len(regions))

	for _, region := range regions {
		wg.Add(1)
		go func(r Region) {
			defer wg.Done()

			set, err := f.FetchRegion(ctx, r)
			resultChan <- regionModels{region: r, set: set, err: err}
		}(region)
	}

	wg.Wait()
	close(resultChan)

	sets := make(Sets, len(regions))
	for result := range resultChan {
		if result.err != nil {
			logger.Error().
				Err(result.err).
				Str("region", result.region.Code).
				Msg("Region fetch failed, continuing with empty set")
			sets[result.region] = ModelSet{}
			continue
		}

		logger.Info().
			Str("region", result.region.Code).
			Int("active_models", len(result.set)).
			Msg("Fetched active models")
		sets[result.region] = result.set
	}

	return sets
}
