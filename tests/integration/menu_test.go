//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestMenu_List(t *testing.T) {
	resp := doGet(t, "/api/menu")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	items := decodeJSON[[]menuItemResponse](t, resp)
	if len(items) != 11 {
		t.Fatalf("expected 11 menu items, got %d", len(items))
	}

	byID := make(map[string]menuItemResponse, len(items))
	categories := make(map[string]int)
	for _, item := range items {
		byID[item.ID] = item
		categories[item.Category]++
	}

	if categories["food"] != 4 || categories["drinks"] != 4 || categories["desserts"] != 3 {
		t.Errorf("unexpected category split: %v", categories)
	}

	nasi, ok := byID["food-001"]
	if !ok {
		t.Fatal("food-001 missing from menu")
	}
	if nasi.Price != 25000 {
		t.Errorf("food-001 price: got %v, want 25000", nasi.Price)
	}
	if nasi.PriceFormatted != "Rp 25.000" {
		t.Errorf("food-001 priceFormatted: got %q", nasi.PriceFormatted)
	}
	if len(nasi.Variations) == 0 {
		t.Error("food-001 should have variations")
	}
}

func TestMenu_RestaurantInfo(t *testing.T) {
	resp := doGet(t, "/api/restaurant")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	info := decodeJSON[restaurantResponse](t, resp)
	if info.Name != "Warung Digital" {
		t.Errorf("name: got %q", info.Name)
	}
	if info.Phone == "" || info.Address == "" {
		t.Errorf("incomplete restaurant info: %+v", info)
	}
}
