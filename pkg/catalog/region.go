// Package catalog implements the watsonx.ai foundation-model catalog
// client: fetching model specs per region, filtering them by lifecycle
// state, and reconciling the resulting sets across regions.
package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wxcompass/wxcompass/pkg/errors"
)

// Region is one geographic watsonx.ai deployment, identified by its base
// endpoint URL. Code is the first host label (e.g. "us-south") and is used
// in logs and reports.
type Region struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
	Code    string `json:"code" yaml:"code"`
}

// String returns the region's short code.
func (r Region) String() string {
	return r.Code
}

// NewRegion builds a Region from its base endpoint URL, deriving the short
// code from the host's first label.
func NewRegion(baseURL string) (Region, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return Region{}, errors.WrapValidation("region", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Region{}, errors.NewValidationError("region", baseURL,
			fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return Region{}, errors.NewValidationError("region", baseURL, "missing host")
	}

	host := u.Hostname()
	code, _, _ := strings.Cut(host, ".")

	return Region{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Code:    code,
	}, nil
}

// ParseRegions builds the ordered region list from configured base URLs.
// Duplicate short codes are rejected since reports key on them.
func ParseRegions(baseURLs []string) ([]Region, error) {
	if len(baseURLs) == 0 {
		return nil, errors.NewValidationError("regions", baseURLs, "at least one region is required")
	}

	seen := make(map[string]string, len(baseURLs))
	regions := make([]Region, 0, len(baseURLs))
	for _, raw := range baseURLs {
		region, err := NewRegion(raw)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[region.Code]; ok {
			return nil, errors.NewValidationError("regions", raw,
				fmt.Sprintf("short code %q already used by %s", region.Code, prev))
		}
		seen[region.Code] = region.BaseURL
		regions = append(regions, region)
	}
	return regions, nil
}

// DefaultRegions returns the regions compared when none are configured.
func DefaultRegions() []Region {
	regions, err := ParseRegions([]string{
		"https://us-south.ml.cloud.ibm.com",
		"https://eu-de.ml.cloud.ibm.com",
		"https://jp-tok.ml.cloud.ibm.com",
		"https://au-syd.ml.cloud.ibm.com",
	})
	if err != nil {
		panic(err) // static list, cannot fail
	}
	return regions
}
