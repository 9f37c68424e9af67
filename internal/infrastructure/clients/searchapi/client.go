// Package searchapi wraps the remote pharmacy search-and-booking API. The
// gateway never interprets stock beyond the response shapes below; the
// upstream owns search, pricing and order persistence.
package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/config"
)

// Client is the port the wizard and booking services consume.
type Client interface {
	TwoStepSearch(ctx context.Context, name, city string) (*TwoStepResponse, error)
	Search(ctx context.Context, req SearchRequest) (*SearchPage, error)
	Cities(ctx context.Context) ([]string, error)
	CreateOrder(ctx context.Context, req entities.BookingRequest) (*entities.Order, error)
}

// TwoStepResponse is the initial-search payload: candidate forms plus
// preview rows the variant list is built from.
type TwoStepResponse struct {
	AvailableForms  []string                  `json:"available_forms"`
	PreviewProducts []entities.PreviewProduct `json:"preview_products"`
	TotalFound      int                       `json:"total_found"`
	SearchID        string                    `json:"search_id"`
	Message         string                    `json:"message,omitempty"`
}

// SearchRequest is a refined-search page fetch. All fields except Page and
// Size come from the session's SearchContext and are replayed unchanged.
type SearchRequest struct {
	Name         string
	City         string
	Form         string
	Manufacturer string
	Country      string
	SearchID     string
	Page         int
	Size         int
}

// SearchPage is one page of pharmacy-stock rows.
type SearchPage struct {
	Items      []entities.StockRow `json:"items"`
	Page       int                 `json:"page"`
	Size       int                 `json:"size"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"total_pages"`
}

// apiError is the upstream structured error body (FastAPI style).
type apiError struct {
	Detail string `json:"detail"`
}

// HTTPClient implements Client over the upstream REST API. All calls go
// through a shared circuit breaker so a dead upstream fails fast instead
// of tying up the wizard with timeouts.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a new upstream API client.
func NewClient(cfg *config.SearchAPIConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "search-api",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// TwoStepSearch runs the initial free-text search.
func (c *HTTPClient) TwoStepSearch(ctx context.Context, name, city string) (*TwoStepResponse, error) {
	query := url.Values{}
	query.Set("name", name)
	if city != "" {
		query.Set("city", city)
	}

	out := &TwoStepResponse{}
	endpoint := fmt.Sprintf("%s/api/search/search-two-step/?%s", c.baseURL, query.Encode())
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search fetches one page of refined-search results.
func (c *HTTPClient) Search(ctx context.Context, req SearchRequest) (*SearchPage, error) {
	query := url.Values{}
	if req.SearchID != "" {
		query.Set("search_id", req.SearchID)
	}
	if req.Name != "" {
		query.Set("name", req.Name)
	}
	if req.City != "" {
		query.Set("city", req.City)
	}
	if req.Form != "" {
		query.Set("form", req.Form)
	}
	if req.Manufacturer != "" {
		query.Set("manufacturer", req.Manufacturer)
	}
	if req.Country != "" {
		query.Set("country", req.Country)
	}
	if req.Page > 0 {
		query.Set("page", strconv.Itoa(req.Page))
	}
	if req.Size > 0 {
		query.Set("size", strconv.Itoa(req.Size))
	}

	out := &SearchPage{}
	endpoint := fmt.Sprintf("%s/api/search/search/?%s", c.baseURL, query.Encode())
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cities fetches the city list. The endpoint has returned both a bare
// array and an object wrapper over its lifetime, so both are accepted;
// anything else is an error the caller turns into the fallback list.
func (c *HTTPClient) Cities(ctx context.Context) ([]string, error) {
	var raw json.RawMessage
	endpoint := fmt.Sprintf("%s/api/search/cities/", c.baseURL)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	return decodeCityList(raw)
}

// CreateOrder submits a booking and returns the created order.
func (c *HTTPClient) CreateOrder(ctx context.Context, req entities.BookingRequest) (*entities.Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode booking: %w", err)
	}

	out := &entities.Order{}
	endpoint := fmt.Sprintf("%s/api/orders", c.baseURL)
	if err := c.doJSON(ctx, http.MethodPost, endpoint, bytes.NewReader(body), out); err != nil {
		return nil, err
	}
	if out.UUID == "" {
		return nil, fmt.Errorf("order response missing uuid")
	}
	return out, nil
}

func decodeCityList(raw json.RawMessage) ([]string, error) {
	var cities []string
	if err := json.Unmarshal(raw, &cities); err == nil {
		return cities, nil
	}

	var wrapped struct {
		Results []string `json:"results"`
		Items   []string `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if wrapped.Results != nil {
			return wrapped.Results, nil
		}
		if wrapped.Items != nil {
			return wrapped.Items, nil
		}
	}

	return nil, fmt.Errorf("unexpected cities response shape")
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body io.Reader, out interface{}) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return nil, err
		}
		if body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var apiErr apiError
			if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Detail != "" {
				return nil, fmt.Errorf("search api returned status %d: %s", resp.StatusCode, apiErr.Detail)
			}
			return nil, fmt.Errorf("search api returned status %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}
