package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
	apperrors "github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/errors"
)

type fakeBooking struct {
	order       *entities.Order
	err         error
	lastSession string
	lastReq     entities.BookingRequest
}

func (f *fakeBooking) CreateOrder(ctx context.Context, sessionID string, req entities.BookingRequest) (*entities.Order, error) {
	f.lastSession = sessionID
	f.lastReq = req
	return f.order, f.err
}

func TestCreateOrderHandler(t *testing.T) {
	fake := &fakeBooking{order: &entities.Order{UUID: "o-1", Status: "pending"}}
	handler := NewBookingHandler(fake)

	body := `{"session_id":"sess-1","product_id":"u-1","pharmacy_id":"ph-1","quantity":2,"customer_name":"Иван","customer_phone":"+375291234567"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CreateOrder(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var order entities.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "o-1", order.UUID)
	assert.Equal(t, "sess-1", fake.lastSession)
	assert.Equal(t, 2.0, fake.lastReq.Quantity)
}

func TestCreateOrderRequiresSession(t *testing.T) {
	handler := NewBookingHandler(&fakeBooking{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"product_id":"u-1"}`))
	rec := httptest.NewRecorder()

	handler.CreateOrder(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderValidationError(t *testing.T) {
	fake := &fakeBooking{err: apperrors.NewValidationError("недостаточно товара, доступно: 5 уп.")}
	handler := NewBookingHandler(fake)

	body := `{"session_id":"sess-1","product_id":"u-1","quantity":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CreateOrder(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "5")
}
