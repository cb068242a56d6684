package app

import (
	"sort"

	"github.com/benoitgrasset/restoFinderIA/internal/domain"
)

// Categories returns the distinct cuisines of list in lexicographic order.
func Categories(list []domain.Restaurant) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, r := range list {
		if _, ok := seen[r.Cuisine]; ok {
			continue
		}
		seen[r.Cuisine] = struct{}{}
		out = append(out, r.Cuisine)
	}
	sort.Strings(out)
	return out
}

// ApplyFilters narrows list to the selected cuisine (empty = any) and the
// selected price tiers (empty set = any). A restaurant with no price level is
// excluded only while a price filter is active. The two predicates are
// independent, so their application order does not matter.
func ApplyFilters(list []domain.Restaurant, category string, prices map[string]bool) []domain.Restaurant {
	out := make([]domain.Restaurant, 0, len(list))
	for _, r := range list {
		if category != "" && r.Cuisine != category {
			continue
		}
		if len(prices) > 0 && (r.PriceLevel == "" || !prices[r.PriceLevel]) {
			continue
		}
		out = append(out, r)
	}
	return out
}
