package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
)

// BookingService defines the booking operations used by the handler.
type BookingService interface {
	CreateOrder(ctx context.Context, sessionID string, req entities.BookingRequest) (*entities.Order, error)
}

// BookingHandler handles order creation.
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type orderRequest struct {
	SessionID     string  `json:"session_id"`
	ProductID     string  `json:"product_id"`
	PharmacyID    string  `json:"pharmacy_id"`
	Quantity      float64 `json:"quantity"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
}

// CreateOrder handles POST /api/orders
func (h *BookingHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var payload orderRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.SessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	order, err := h.service.CreateOrder(r.Context(), payload.SessionID, entities.BookingRequest{
		ProductID:     payload.ProductID,
		PharmacyID:    payload.PharmacyID,
		Quantity:      payload.Quantity,
		CustomerName:  payload.CustomerName,
		CustomerPhone: payload.CustomerPhone,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, order)
}
