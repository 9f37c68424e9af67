package searchapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/config"
)

func newTestClient(serverURL string) *HTTPClient {
	return NewClient(&config.SearchAPIConfig{
		BaseURL: serverURL,
		Timeout: 5 * time.Second,
	})
}

func TestTwoStepSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search/search-two-step/", r.URL.Path)
		assert.Equal(t, "аспирин", r.URL.Query().Get("name"))
		assert.Equal(t, "Минск", r.URL.Query().Get("city"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"available_forms": []string{"табл.", "капс."},
			"preview_products": []map[string]interface{}{
				{"name": "Аспирин", "form": "табл.", "manufacturer": "Борщаговский ХФЗ", "country": "Украина"},
			},
			"total_found": 12,
			"search_id":   "s-123",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.TwoStepSearch(context.Background(), "аспирин", "Минск")
	require.NoError(t, err)

	assert.Equal(t, []string{"табл.", "капс."}, resp.AvailableForms)
	require.Len(t, resp.PreviewProducts, 1)
	assert.Equal(t, "Аспирин", resp.PreviewProducts[0].Name)
	assert.Equal(t, 12, resp.TotalFound)
	assert.Equal(t, "s-123", resp.SearchID)
}

func TestSearchPassesRefinementParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search/search/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "s-123", q.Get("search_id"))
		assert.Equal(t, "табл.", q.Get("form"))
		assert.Equal(t, "Борщаговский ХФЗ", q.Get("manufacturer"))
		assert.Equal(t, "Украина", q.Get("country"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "50", q.Get("size"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{"uuid": "u-1", "name": "Аспирин", "price": 1.5, "quantity": "3"},
			},
			"page":        2,
			"size":        50,
			"total":       120,
			"total_pages": 3,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.Search(context.Background(), SearchRequest{
		Name:         "аспирин",
		SearchID:     "s-123",
		Form:         "табл.",
		Manufacturer: "Борщаговский ХФЗ",
		Country:      "Украина",
		Page:         2,
		Size:         50,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "u-1", page.Items[0].UUID)
	assert.Equal(t, 3.0, float64(page.Items[0].Quantity))
}

func TestCitiesDecodesAllShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"bare array", `["Минск","Гомель"]`, []string{"Минск", "Гомель"}},
		{"results wrapper", `{"results":["Брест"]}`, []string{"Брест"}},
		{"items wrapper", `{"items":["Гродно"]}`, []string{"Гродно"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			cities, err := client.Cities(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, cities)
		})
	}
}

func TestCitiesRejectsUnknownShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cities":{"nested":true}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Cities(context.Background())
	assert.Error(t, err)
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)

		var req entities.BookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "u-1", req.ProductID)
		assert.Equal(t, 2.0, req.Quantity)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"uuid":   "o-42",
			"status": "pending",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	order, err := client.CreateOrder(context.Background(), entities.BookingRequest{
		ProductID:     "u-1",
		PharmacyID:    "ph-1",
		Quantity:      2,
		CustomerName:  "Иван",
		CustomerPhone: "+375291234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "o-42", order.UUID)
	assert.Equal(t, "pending", order.Status)
}

func TestCreateOrderMissingUUID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "pending"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateOrder(context.Background(), entities.BookingRequest{ProductID: "u-1"})
	assert.Error(t, err)
}

func TestErrorStatusIncludesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"search_id expired"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Search(context.Background(), SearchRequest{Name: "аспирин"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search_id expired")
	assert.Contains(t, err.Error(), "422")
}
