package acs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/siting-cli/internal/failure"
	"github.com/sells-group/siting-cli/internal/fetcher"
	"github.com/sells-group/siting-cli/internal/model"
)

// DefaultBaseURL is the Census data API root.
const DefaultBaseURL = "https://api.census.gov/data"

// DefaultYear is the default ACS 5-year vintage.
const DefaultYear = 2022

// Client queries the ACS 5-year endpoint.
type Client struct {
	fetcher fetcher.Fetcher
	baseURL string
	year    int
	apiKey  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Census data API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithYear sets the ACS vintage.
func WithYear(year int) Option {
	return func(c *Client) {
		if year > 0 {
			c.year = year
		}
	}
}

// WithAPIKey sets the Census API key. Empty means unauthenticated.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// NewClient creates an ACS client.
func NewClient(f fetcher.Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher: f,
		baseURL: DefaultBaseURL,
		year:    DefaultYear,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}


// Row is one block group's values, keyed by variable name.
type Row struct {
	GEOID      string
	State      string
	County     string
	Tract      string
	BlockGroup string
	Values     map[string]model.Float
}

// Value returns the named value, null when absent.
func (r Row) Value(name string) model.Float {
	return r.Values[name]
}

// Table is the parsed response of a variable request.
type Table struct {
	Variables []Variable
	Rows      []Row
}

// requestURL builds the bulk query for every block group in the region.
func (c *Client) requestURL(region model.Region, vars []Variable) string {
	codes := make([]string, len(vars))
	for i, v := range vars {
		codes[i] = v.Code
	}

	q := url.Values{}
	q.Set("get", strings.Join(codes, ","))
	q.Set("for", "block group:*")
	q.Set("in", fmt.Sprintf("state:%s county:%s", region.State, strings.Join(region.Counties, ",")))
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	return fmt.Sprintf("%s/%d/acs/acs5?%s", c.baseURL, c.year, q.Encode())
}

// FetchVariables requests vars for every block group in the region in a
// single call. Values that do not parse as numbers become null.
func (c *Client) FetchVariables(ctx context.Context, region model.Region, vars []Variable) (*Table, error) {
	if len(vars) == 0 {
		return nil, eris.New("acs: no variables requested")
	}
	reqURL := c.requestURL(region, vars)

	body, err := c.fetcher.Download(ctx, reqURL)
	if err != nil {
		return nil, eris.Wrap(err, "acs: download")
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrap(&failure.TransportError{URL: fetcher.RedactURL(reqURL), Err: err}, "acs: read response")
	}

	table, err := parseTable(data, vars)
	if err != nil {
		return nil, eris.Wrap(err, "acs: parse response")
	}

	zap.L().Debug("acs: variables fetched",
		zap.String("region", region.String()),
		zap.Int("year", c.year),
		zap.Int("rows", len(table.Rows)),
	)
	return table, nil
}

// parseTable decodes the API's array-of-arrays body: a header row followed
// by one row per block group.
func parseTable(data []byte, vars []Variable) (*Table, error) {
	malformed := func(err error) error {
		return &failure.MalformedError{Source: "acs", Body: failure.Snippet(data), Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw [][]any
	if err := dec.Decode(&raw); err != nil {
		return nil, malformed(eris.Wrap(err, "decode json"))
	}
	if len(raw) == 0 {
		return nil, malformed(eris.New("empty response"))
	}

	header := make(map[string]int, len(raw[0]))
	for i, h := range raw[0] {
		header[cell(h)] = i
	}
	for _, col := range []string{colState, colCounty, colTract, colBlockGroup} {
		if _, ok := header[col]; !ok {
			return nil, malformed(eris.Errorf("missing geography column %q", col))
		}
	}

	table := &Table{Variables: vars, Rows: make([]Row, 0, len(raw)-1)}
	for n, rec := range raw[1:] {
		if len(rec) != len(raw[0]) {
			return nil, malformed(eris.Errorf("row %d has %d cells, header has %d", n+1, len(rec), len(raw[0])))
		}
		row := Row{
			State:      cell(rec[header[colState]]),
			County:     cell(rec[header[colCounty]]),
			Tract:      cell(rec[header[colTract]]),
			BlockGroup: cell(rec[header[colBlockGroup]]),
			Values:     make(map[string]model.Float, len(vars)),
		}
		row.GEOID = model.GEOID(row.State, row.County, row.Tract, row.BlockGroup)
		for _, v := range vars {
			if idx, ok := header[v.Code]; ok {
				row.Values[v.Name] = model.ParseFloat(cell(rec[idx]))
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// cell renders a decoded JSON value as text; null becomes "".
func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
