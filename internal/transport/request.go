package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/wxcompass/wxcompass/pkg/errors"
	"github.com/wxcompass/wxcompass/pkg/logging"
)

// DecodeResponse decodes a JSON response into the target structure.
// Non-2xx responses become an APIError carrying the body; undecodable
// bodies become a ParseError.
func DecodeResponse(resp *http.Response, region string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapFetch(region, resp.Request.URL.String(), err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &errors.APIError{
			Region:     region,
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   resp.Request.URL.Path,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", resp.Request.URL.Path, err)
	}

	return nil
}
