//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go/modules/compose"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	baseURL    string
	httpClient *http.Client
)

// Response types are defined locally to keep tests truly black-box (no internal imports).

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type errorResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

type menuItemResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Price          float64             `json:"price"`
	PriceFormatted string              `json:"priceFormatted"`
	Category       string              `json:"category"`
	Available      bool                `json:"available"`
	Variations     []variationResponse `json:"variations,omitempty"`
}

type variationResponse struct {
	Name    string `json:"name"`
	Options []struct {
		Label           string  `json:"label"`
		PriceAdjustment float64 `json:"priceAdjustment"`
	} `json:"options"`
}

type restaurantResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

type sessionResponse struct {
	TableNumber string         `json:"tableNumber"`
	SessionID   string         `json:"sessionId"`
	StartTime   time.Time      `json:"startTime"`
	Cart        []lineResponse `json:"cart"`
}

type cartResponse struct {
	TableNumber    string         `json:"tableNumber"`
	Items          []lineResponse `json:"items"`
	Total          float64        `json:"total"`
	TotalFormatted string         `json:"totalFormatted"`
	ItemCount      int            `json:"itemCount"`
}

type lineResponse struct {
	MenuItem           menuItemResponse  `json:"menuItem"`
	Quantity           int               `json:"quantity"`
	SelectedVariations map[string]string `json:"selectedVariations,omitempty"`
	Notes              string            `json:"notes"`
	Subtotal           float64           `json:"subtotal"`
	SubtotalFormatted  string            `json:"subtotalFormatted"`
}

type orderResponse struct {
	ID                 string         `json:"id"`
	TableNumber        string         `json:"tableNumber"`
	Items              []lineResponse `json:"items"`
	Total              float64        `json:"total"`
	TotalFormatted     string         `json:"totalFormatted"`
	Timestamp          time.Time      `json:"timestamp"`
	TimestampFormatted string         `json:"timestampFormatted"`
	Status             string         `json:"status"`
	Notes              string         `json:"notes,omitempty"`
}

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Create coverage output directory for the instrumented binary.
	if err := os.MkdirAll("coverdir", 0o777); err != nil {
		log.Fatalf("create coverdir: %v", err)
	}

	dc, err := tc.NewDockerCompose("docker-compose.test.yml")
	if err != nil {
		log.Fatalf("compose init: %v", err)
	}

	// Start postgres + api, wait until the API readiness check passes.
	err = dc.
		WaitForService("api", wait.ForHTTP("/readyz").WithPort("8080/tcp")).
		Up(ctx, tc.Wait(true))
	if err != nil {
		log.Fatalf("compose up: %v", err)
	}

	apiContainer, err := dc.ServiceContainer(ctx, "api")
	if err != nil {
		log.Fatalf("api container: %v", err)
	}

	host, err := apiContainer.Host(ctx)
	if err != nil {
		log.Fatalf("host: %v", err)
	}

	mappedPort, err := apiContainer.MappedPort(ctx, "8080/tcp")
	if err != nil {
		log.Fatalf("mapped port: %v", err)
	}

	baseURL = fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	httpClient = &http.Client{Timeout: 10 * time.Second}
	log.Printf("API available at %s", baseURL)

	// The server seeds the catalog itself on first start; wait until the full
	// menu is served.
	if err := waitForSeededData(ctx); err != nil {
		log.Fatalf("wait for seed: %v", err)
	}

	result := m.Run()

	// Stop the API container gracefully so the coverage-instrumented binary
	// flushes coverage data to GOCOVERDIR (bind-mounted to ./coverdir).
	// The compose file sets stop_signal: SIGINT because app.Run handles
	// SIGINT (not SIGTERM) for graceful shutdown.
	stopTimeout := 30 * time.Second
	if err := apiContainer.Stop(ctx, &stopTimeout); err != nil {
		log.Printf("stop api container: %v", err)
	}

	if err := dc.Down(context.Background(), tc.RemoveOrphans(true)); err != nil {
		log.Printf("compose down: %v", err)
	}

	return result
}

// waitForSeededData polls the menu until all 11 seeded items appear.
func waitForSeededData(ctx context.Context) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var lastErr string
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for seeded data (last: %s): %w", lastErr, ctx.Err())
		case <-ticker.C:
			resp, err := httpClient.Get(baseURL + "/api/menu")
			if err != nil {
				lastErr = err.Error()
				continue
			}

			var items []menuItemResponse
			if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
				lastErr = fmt.Sprintf("decode: %v (status: %d)", err, resp.StatusCode)
				resp.Body.Close()
				continue
			}
			resp.Body.Close()

			if len(items) == 11 {
				log.Printf("seed data ready: %d menu items", len(items))
				return nil
			}
			lastErr = fmt.Sprintf("got %d menu items, want 11", len(items))
		}
	}
}

// HTTP helpers.

func doGet(t *testing.T, path string) *http.Response {
	t.Helper()
	return doRequest(t, http.MethodGet, path, nil)
}

func doPost(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	return doRequest(t, http.MethodPost, path, body)
}

func doPatch(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	return doRequest(t, http.MethodPatch, path, body)
}

func doDelete(t *testing.T, path string) *http.Response {
	t.Helper()
	return doRequest(t, http.MethodDelete, path, nil)
}

func doRequest(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, baseURL+path, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}
