// Package source fetches draw results from the public lottery API.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
	"github.com/liemgreggy-glitch/fcbot/pkg/logger"
	"github.com/liemgreggy-glitch/fcbot/pkg/metrics"
)

const (
	defaultTimeout = 10 * time.Second

	openTimeLayout = "2006-01-02 15:04:05"

	endpointLatest = "latest"
	endpointLive   = "live"
	endpointYear   = "year"
)

// Client reads completed and in-progress draws from the upstream API.
type Client struct {
	base        string
	historyBase string
	hc          *http.Client
	loc         *time.Location
}

// New creates a Client for the given API roots.
func New(base, historyBase string, opts ...Option) *Client {
	c := &Client{
		base:        strings.TrimRight(base, "/"),
		historyBase: strings.TrimRight(historyBase, "/"),
		hc:          &http.Client{Timeout: defaultTimeout},
		loc:         model.DrawLocation(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// entry is one draw in the upstream wire shape.
type entry struct {
	Expect   string          `json:"expect"`
	OpenCode string          `json:"openCode"`
	Zodiac   json.RawMessage `json:"zodiac"`
	OpenTime string          `json:"openTime"`
}

// yearResponse wraps the yearly history payload.
type yearResponse struct {
	Code int     `json:"code"`
	Data []entry `json:"data"`
}

// Latest returns the most recent completed draw.
func (c *Client) Latest(ctx context.Context) (model.Draw, error) {
	var entries []entry
	if err := c.getJSON(ctx, endpointLatest, c.base+"/macaujc2.com", &entries); err != nil {
		return model.Draw{}, err
	}
	if len(entries) == 0 {
		return model.Draw{}, fmt.Errorf("%w: latest", ErrEmptyResponse)
	}
	return c.parseEntry(ctx, entries[0])
}

// Live returns the draw currently being published. Before all balls are
// out the entry is incomplete and parsing fails; callers treat that as
// "no result yet".
func (c *Client) Live(ctx context.Context) (model.Draw, error) {
	var e entry
	if err := c.getJSON(ctx, endpointLive, c.base+"/live2", &e); err != nil {
		return model.Draw{}, err
	}
	return c.parseEntry(ctx, e)
}

// Year returns every parseable draw of the given calendar year, in the
// upstream's order. Malformed entries are skipped with a warning.
func (c *Client) Year(ctx context.Context, year int) ([]model.Draw, error) {
	url := fmt.Sprintf("%s/history/macaujc2/y/%d", c.historyBase, year)

	var resp yearResponse
	if err := c.getJSON(ctx, endpointYear, url, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 && resp.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: year %d code %d", ErrUpstreamStatus, year, resp.Code)
	}

	draws := make([]model.Draw, 0, len(resp.Data))
	for _, e := range resp.Data {
		d, err := c.parseEntry(ctx, e)
		if err != nil {
			logger.Get().Warn(ctx, "skipping malformed draw entry",
				logger.String("seq", e.Expect),
				logger.Error(err))
			continue
		}
		draws = append(draws, d)
	}
	return draws, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, url string, out any) error {
	start := time.Now()
	defer func() {
		metrics.RecordSourceLatency(endpoint, float64(time.Since(start).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		metrics.RecordSourceError(endpoint)
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.RecordSourceError(endpoint)
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.RecordSourceRequest(endpoint, strconv.Itoa(resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		metrics.RecordSourceError(endpoint)
		return fmt.Errorf("%w: %s returned %d", ErrUpstreamStatus, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordSourceError(endpoint)
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		metrics.RecordSourceError(endpoint)
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) parseEntry(ctx context.Context, e entry) (model.Draw, error) {
	nums, err := splitOpenCode(e.OpenCode)
	if err != nil {
		return model.Draw{}, fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}

	openTime, err := time.ParseInLocation(openTimeLayout, e.OpenTime, c.loc)
	if err != nil {
		return model.Draw{}, fmt.Errorf("%w: open time %q", ErrMalformedEntry, e.OpenTime)
	}

	d, err := model.NewDraw(e.Expect, nums, openTime)
	if err != nil {
		return model.Draw{}, err
	}

	// The upstream publishes its own category labels. The ball table is
	// authoritative; a disagreement is logged and the table wins.
	if labels := e.zodiacLabels(); len(labels) == len(nums) {
		apiSign, err := zodiac.Parse(strings.TrimSpace(labels[len(labels)-1]))
		if err != nil || apiSign != d.SpecialSign {
			logger.Get().Warn(ctx, "upstream category disagrees with ball table",
				logger.String("seq", d.Seq),
				logger.String("upstream", strings.TrimSpace(labels[len(labels)-1])),
				logger.String("derived", string(d.SpecialSign)))
		}
	}

	return d, nil
}

// zodiacLabels accepts both wire shapes: a JSON array of labels or one
// comma-joined string.
func (e entry) zodiacLabels() []string {
	if len(e.Zodiac) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(e.Zodiac, &list); err == nil {
		return list
	}
	var joined string
	if err := json.Unmarshal(e.Zodiac, &joined); err == nil && joined != "" {
		return strings.Split(joined, ",")
	}
	return nil
}

func splitOpenCode(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty open code")
	}
	parts := strings.Split(s, ",")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("ball %q", p)
		}
		nums[i] = n
	}
	return nums, nil
}
