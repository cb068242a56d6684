package app

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/benoitgrasset/restoFinderIA/internal/domain"
)

// The model is asked for a bare JSON block but routinely wraps it in prose and
// a fenced code block. Extraction precedence: fenced with language tag, fenced
// without tag, whole trimmed text.
var (
	fencedTagged = regexp.MustCompile("```[a-zA-Z]+\\n([\\s\\S]*?)\\n```")
	fencedPlain  = regexp.MustCompile("```\\n([\\s\\S]*?)\\n```")
)

func extractJSON(raw string) string {
	if m := fencedTagged.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := fencedPlain.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// parseSearchResponse turns the raw model answer into validated restaurants
// plus a resolved map center. Candidates missing a name or a finite lat/lng
// are dropped without error; a payload that is not JSON at all is terminal
// for the attempt and reported as ErrMalformedResponse. Upstream ordering is
// preserved. Center precedence: requested location, first valid restaurant,
// then domain.DefaultCenter.
func parseSearchResponse(raw string, requested *domain.Coords) ([]domain.Restaurant, domain.Coords, error) {
	var candidates []map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &candidates); err != nil {
		log.Error().Err(err).Str("raw", raw).Msg("search response is not valid JSON")
		return nil, domain.Coords{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	out := make([]domain.Restaurant, 0, len(candidates))
	for _, c := range candidates {
		lat := floatField(c, "lat", "latitude")
		lng := floatField(c, "lng", "lon", "longitude")
		name := strField(c, "name")
		if lat == nil || lng == nil || name == "" {
			continue
		}
		r := domain.Restaurant{
			ID:          strField(c, "id"),
			Name:        name,
			Cuisine:     strField(c, "cuisine"),
			PriceLevel:  strField(c, "priceLevel"),
			Address:     strField(c, "address"),
			Description: strField(c, "description"),
			Lat:         *lat,
			Lng:         *lng,
		}
		if f := floatField(c, "rating"); f != nil {
			r.Rating = *f
		}
		if f := floatField(c, "reviewCount"); f != nil {
			n := int(*f)
			r.ReviewCount = &n
		}
		r.Reviews = reviewsField(c)
		if r.ID == "" {
			r.ID = syntheticID(r)
		}
		out = append(out, r)
	}

	center := domain.DefaultCenter
	switch {
	case requested != nil:
		center = *requested
	case len(out) > 0:
		center = out[0].Coords()
	}
	return out, center, nil
}

// syntheticID gives a stable key to candidates the upstream returned without
// one, so favoriting still works.
func syntheticID(r domain.Restaurant) string {
	sum := sha1.Sum([]byte(strings.Join([]string{r.Name, r.Address, fmt.Sprintf("%.5f,%.5f", r.Lat, r.Lng)}, "|")))
	return hex.EncodeToString(sum[:])
}

/********** loose-field helpers **********/

// floatField: finite number from the first matching key (float64 or numeric
// string, comma decimals tolerated).
func floatField(m map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				f := v
				return &f
			}
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return &f
			}
		}
	}
	return nil
}

func strField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func reviewsField(m map[string]any) []domain.Review {
	raw, ok := m["reviews"].([]any)
	if !ok {
		return nil
	}
	out := make([]domain.Review, 0, len(raw))
	for _, it := range raw {
		rm, ok := it.(map[string]any)
		if !ok {
			continue
		}
		rv := domain.Review{
			Author: strField(rm, "author", "name"),
			Text:   strField(rm, "text", "comment"),
		}
		if f := floatField(rm, "rating"); f != nil {
			rv.Rating = *f
		}
		out = append(out, rv)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
