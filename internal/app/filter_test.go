package app

import (
	"reflect"
	"testing"

	"github.com/benoitgrasset/restoFinderIA/internal/domain"
)

func sampleList() []domain.Restaurant {
	return []domain.Restaurant{
		{ID: "1", Name: "A", Cuisine: "Italien", PriceLevel: "€€"},
		{ID: "2", Name: "B", Cuisine: "Japonais", PriceLevel: "€€€"},
		{ID: "3", Name: "C", Cuisine: "Italien", PriceLevel: "€"},
		{ID: "4", Name: "D", Cuisine: "Burger", PriceLevel: ""},
	}
}

func TestCategories_SortedDistinct(t *testing.T) {
	got := Categories(sampleList())
	want := []string{"Burger", "Italien", "Japonais"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestApplyFilters_CommutesBetweenPredicates(t *testing.T) {
	list := sampleList()
	prices := map[string]bool{"€€": true, "€": true}

	catThenPrice := ApplyFilters(ApplyFilters(list, "Italien", nil), "", prices)
	priceThenCat := ApplyFilters(ApplyFilters(list, "", prices), "Italien", nil)
	combined := ApplyFilters(list, "Italien", prices)

	if !reflect.DeepEqual(catThenPrice, priceThenCat) || !reflect.DeepEqual(combined, catThenPrice) {
		t.Fatalf("predicate order changed the result:\n%v\n%v\n%v", catThenPrice, priceThenCat, combined)
	}
	if len(combined) != 2 || combined[0].ID != "1" || combined[1].ID != "3" {
		t.Fatalf("unexpected filtered list: %v", combined)
	}
}

func TestApplyFilters_MissingPriceLevel(t *testing.T) {
	list := sampleList()

	// no price filter: the unpriced restaurant stays
	if got := ApplyFilters(list, "", nil); len(got) != 4 {
		t.Fatalf("expected full list, got %v", got)
	}
	// any active price filter excludes it
	got := ApplyFilters(list, "", map[string]bool{"€€": true})
	for _, r := range got {
		if r.ID == "4" {
			t.Fatalf("unpriced restaurant must be excluded under a price filter: %v", got)
		}
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("unexpected filtered list: %v", got)
	}
}
