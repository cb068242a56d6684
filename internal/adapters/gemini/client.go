package gemini

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/benoitgrasset/restoFinderIA/internal/adapters/observability"
	"github.com/benoitgrasset/restoFinderIA/internal/domain"
)

// CapabilityTag names a tool the model may use while composing its answer.
type CapabilityTag string

// CapabilityGoogleMaps enables maps-grounded retrieval.
const CapabilityGoogleMaps CapabilityTag = "googleMaps"

// GenerationConfig is the closed request configuration: every knob is a
// field, nothing is assembled into a loosely-typed bag.
type GenerationConfig struct {
	Tools         []CapabilityTag
	Temperature   float64
	PrecisionHint *domain.Coords
}

// DefaultGenerationConfig mirrors the product defaults: maps grounding on,
// moderate creativity.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Tools:       []CapabilityTag{CapabilityGoogleMaps},
		Temperature: 0.7,
	}
}

const maxInFlight = 4

type Client struct {
	base  string
	model string
	key   string
	hc    *http.Client
	rl    *rate.Limiter
	sem   *semaphore.Weighted
	cfg   GenerationConfig
}

func New(base, key, model string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		model: model,
		key:   key,
		hc:    &http.Client{Timeout: 60 * time.Second},
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
		sem:   semaphore.NewWeighted(maxInFlight),
		cfg:   DefaultGenerationConfig(),
	}, nil
}

// ---- wire types ----

type genRequest struct {
	Contents         []content   `json:"contents"`
	Tools            []toolSpec  `json:"tools,omitempty"`
	ToolConfig       *toolConfig `json:"toolConfig,omitempty"`
	GenerationConfig genSettings `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type toolSpec struct {
	GoogleMaps *struct{} `json:"googleMaps,omitempty"`
}

type toolConfig struct {
	RetrievalConfig retrievalConfig `json:"retrievalConfig"`
}

type retrievalConfig struct {
	LatLng latLng `json:"latLng"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type genSettings struct {
	Temperature float64 `json:"temperature"`
}

type genResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func buildRequest(prompt string, cfg GenerationConfig) genRequest {
	req := genRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: genSettings{Temperature: cfg.Temperature},
	}
	for _, tag := range cfg.Tools {
		if tag == CapabilityGoogleMaps {
			req.Tools = append(req.Tools, toolSpec{GoogleMaps: &struct{}{}})
		}
	}
	if cfg.PrecisionHint != nil {
		req.ToolConfig = &toolConfig{RetrievalConfig: retrievalConfig{
			LatLng: latLng{Latitude: cfg.PrecisionHint.Lat, Longitude: cfg.PrecisionHint.Lng},
		}}
	}
	return req
}

// ---- public API ----

// Search runs one maps-grounded generateContent call and returns the model's
// raw text answer. The caller parses it; an answer with no usable JSON is the
// caller's ErrMalformedResponse, while any transport or API failure here maps
// to ErrServiceUnavailable.
func (c *Client) Search(ctx context.Context, q domain.SearchQuery) (string, error) {
	cfg := c.cfg
	cfg.PrecisionHint = q.Location

	body, err := json.Marshal(buildRequest(buildPrompt(q), cfg))
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", domain.ErrServiceUnavailable, err)
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.base, c.model, c.key)

	var out genResponse
	if err := c.post(ctx, url, body, &out); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		break // only the first candidate carries the answer
	}
	return sb.String(), nil
}

// post performs the call with client-side rate limiting, a bound on in-flight
// requests, and retries on 429/transient 5xx honoring Retry-After.
func (c *Client) post(ctx context.Context, url string, body []byte, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	defer c.sem.Release(1)

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, ctx.Err())
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, lastErr)
		}
		observability.ObserveExternal("gemini", "generateContent", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%w: decode response: %v", domain.ErrServiceUnavailable, err)
			}
			return nil

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, lastErr)

		default:
			// auth/quota/bad request: not retryable, keep a body snippet for logs
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%w: status %d: %s", domain.ErrServiceUnavailable,
				resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, lastErr)
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles per attempt (200ms, 400ms, 800ms...) with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
