// Package geoloc resolves the device position through an IP-geolocation
// lookup, the server-side analogue of a browser's geolocation capability.
package geoloc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/benoitgrasset/restoFinderIA/internal/domain"
)

type Provider struct {
	base    string
	hc      *http.Client
	timeout time.Duration
}

// New builds a provider against an ip-api style endpoint. An empty base
// means the capability is not configured; Locate then reports
// ErrNoLocationPermission, the "unsupported" arm of the failure taxonomy.
func New(base string, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Provider{
		base:    base,
		hc:      &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Locate resolves the current position with a bounded wait.
func (p *Provider) Locate(ctx context.Context) (domain.Coords, error) {
	if p.base == "" {
		return domain.Coords{}, domain.ErrNoLocationPermission
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base+"/json", nil)
	if err != nil {
		return domain.Coords{}, fmt.Errorf("%w: %v", domain.ErrNoLocationPermission, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.Coords{}, domain.ErrLocationTimeout
		}
		return domain.Coords{}, fmt.Errorf("%w: %v", domain.ErrNoLocationPermission, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coords{}, fmt.Errorf("%w: status %d", domain.ErrNoLocationPermission, resp.StatusCode)
	}

	var out struct {
		Status string  `json:"status"`
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Coords{}, fmt.Errorf("%w: %v", domain.ErrNoLocationPermission, err)
	}
	if out.Status != "" && out.Status != "success" {
		return domain.Coords{}, fmt.Errorf("%w: lookup status %s", domain.ErrNoLocationPermission, out.Status)
	}
	return domain.Coords{Lat: out.Lat, Lng: out.Lon}, nil
}
