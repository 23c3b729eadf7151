//go:build integration

package integration

import (
	"net/http"
	"strings"
	"testing"
)

type submitOrderBody struct {
	Notes string `json:"notes,omitempty"`
}

func TestOrder_Submit(t *testing.T) {
	const table = "21"

	for _, id := range []string{"food-001", "food-002"} {
		resp := doPost(t, "/api/tables/"+table+"/cart/items", addItemRequest{MenuItemID: id})
		resp.Body.Close()
	}

	resp := doPost(t, "/api/tables/"+table+"/orders", submitOrderBody{Notes: "bungkus semua"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	o := decodeJSON[orderResponse](t, resp)
	if !strings.HasPrefix(o.ID, "ORD-") {
		t.Errorf("order id: got %q", o.ID)
	}
	if o.Status != "submitted" {
		t.Errorf("status: got %q", o.Status)
	}
	if o.Total != 43000 || o.TotalFormatted != "Rp 43.000" {
		t.Errorf("total: got %v / %q", o.Total, o.TotalFormatted)
	}
	if o.Notes != "bungkus semua" {
		t.Errorf("notes: got %q", o.Notes)
	}
	if len(o.Items) != 2 {
		t.Errorf("items: got %d", len(o.Items))
	}
	if o.TimestampFormatted == "" {
		t.Error("timestampFormatted missing")
	}

	// Cart is cleared by submission.
	cartResp := doGet(t, "/api/tables/"+table+"/cart")
	defer cartResp.Body.Close()
	c := decodeJSON[cartResponse](t, cartResp)
	if len(c.Items) != 0 {
		t.Errorf("cart should be empty after submit, got %+v", c.Items)
	}

	// Receipt lookup returns the persisted order.
	getResp := doGet(t, "/api/orders/"+o.ID)
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("get order: expected 200, got %d", getResp.StatusCode)
	}
	got := decodeJSON[orderResponse](t, getResp)
	if got.ID != o.ID || got.Total != o.Total {
		t.Errorf("receipt mismatch: %+v vs %+v", got, o)
	}
}

func TestOrder_SubmitEmptyCart(t *testing.T) {
	resp := doPost(t, "/api/tables/22/orders", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeJSON[errorResponse](t, resp)
	if body.Message != "Keranjang masih kosong" {
		t.Errorf("message: got %q", body.Message)
	}
}

func TestOrder_SnapshotIsolation(t *testing.T) {
	const table = "23"

	resp := doPost(t, "/api/tables/"+table+"/cart/items", addItemRequest{MenuItemID: "dessert-001"})
	resp.Body.Close()

	submitResp := doPost(t, "/api/tables/"+table+"/orders", nil)
	o := decodeJSON[orderResponse](t, submitResp)
	submitResp.Body.Close()

	// New cart activity after submission must not leak into the receipt.
	resp = doPost(t, "/api/tables/"+table+"/cart/items", addItemRequest{MenuItemID: "drink-002"})
	resp.Body.Close()

	getResp := doGet(t, "/api/orders/"+o.ID)
	defer getResp.Body.Close()
	got := decodeJSON[orderResponse](t, getResp)
	if len(got.Items) != 1 || got.Items[0].MenuItem.ID != "dessert-001" {
		t.Errorf("snapshot leaked later cart state: %+v", got.Items)
	}
}

func TestOrder_UnknownID(t *testing.T) {
	resp := doGet(t, "/api/orders/ORD-0-XXXXX")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	body := decodeJSON[errorResponse](t, resp)
	if body.Message != "Pesanan tidak ditemukan" {
		t.Errorf("message: got %q", body.Message)
	}
	if body.Redirect != "/" {
		t.Errorf("redirect: got %q", body.Redirect)
	}
}
