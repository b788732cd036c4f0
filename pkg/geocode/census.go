package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"

	"github.com/sells-group/siting-cli/internal/failure"
)

// censusOneLineResponse is the JSON response from the Census single-address API.
// The raw match list distinguishes an absent key (malformed) from null or [].
type censusOneLineResponse struct {
	Result *struct {
		AddressMatches json.RawMessage `json:"addressMatches"`
	} `json:"result"`
}

type censusAddressMatch struct {
	Coordinates *struct {
		X *float64 `json:"x"` // longitude
		Y *float64 `json:"y"` // latitude
	} `json:"coordinates"`
	MatchedAddress string `json:"matchedAddress"`
}

// RequestFailedError reports a non-2xx status or a network failure.
type RequestFailedError struct {
	Address    string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestFailedError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("geocode: request failed for %q: %v", e.Address, e.Err)
	}
	return fmt.Sprintf("geocode: request failed for %q: status %d: %s", e.Address, e.StatusCode, e.Body)
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

// FailureKind implements failure.Classifier.
func (e *RequestFailedError) FailureKind() failure.Kind { return failure.KindTransport }

// ResponseMalformedError reports a body without the result/match structure.
type ResponseMalformedError struct {
	Address string
	Body    string
	Err     error
}

func (e *ResponseMalformedError) Error() string {
	return fmt.Sprintf("geocode: unexpected payload for %q: %s", e.Address, e.Body)
}

func (e *ResponseMalformedError) Unwrap() error { return e.Err }

// FailureKind implements failure.Classifier.
func (e *ResponseMalformedError) FailureKind() failure.Kind { return failure.KindMalformed }

// Geocode resolves an address with a single request. Only the first match is
// used; multiple matches are not disambiguated.
func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: census rate limit")
	}

	params := url.Values{
		"address":   {address},
		"benchmark": {g.benchmark},
		"format":    {"json"},
	}

	reqURL := g.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: census build request")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &RequestFailedError{Address: address, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestFailedError{Address: address, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestFailedError{
			Address:    address,
			StatusCode: resp.StatusCode,
			Body:       failure.Snippet(body),
		}
	}

	return parseOneLine(address, body)
}

// parseOneLine extracts the first match from a one-line response body.
func parseOneLine(address string, body []byte) (*Result, error) {
	var censusResp censusOneLineResponse
	if err := json.Unmarshal(body, &censusResp); err != nil {
		return nil, &ResponseMalformedError{Address: address, Body: failure.Snippet(body), Err: err}
	}

	if censusResp.Result == nil || len(censusResp.Result.AddressMatches) == 0 {
		return nil, &ResponseMalformedError{Address: address, Body: failure.Snippet(body)}
	}

	// A null match list is a no-match, like an empty one.
	var matches []censusAddressMatch
	if err := json.Unmarshal(censusResp.Result.AddressMatches, &matches); err != nil {
		return nil, &ResponseMalformedError{Address: address, Body: failure.Snippet(body), Err: err}
	}
	if len(matches) == 0 {
		return &Result{Matched: false}, nil
	}

	match := matches[0]
	if match.Coordinates == nil || match.Coordinates.X == nil || match.Coordinates.Y == nil {
		return nil, &ResponseMalformedError{Address: address, Body: failure.Snippet(body)}
	}

	return &Result{
		Latitude:       *match.Coordinates.Y,
		Longitude:      *match.Coordinates.X,
		MatchedAddress: match.MatchedAddress,
		Matched:        true,
	}, nil
}
