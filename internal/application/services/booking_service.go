package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/repositories"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/clients/searchapi"
	apperrors "github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/errors"
)

// BookingService validates reservations against the quantities the user
// actually saw and forwards them upstream.
type BookingService struct {
	api   searchapi.Client
	store repositories.SessionStore
}

func NewBookingService(api searchapi.Client, store repositories.SessionStore) *BookingService {
	return &BookingService{api: api, store: store}
}

// CreateOrder books a grouped row from the session's current results page.
// The available quantity is taken from the session, not from the request,
// so a client cannot book more than it was shown.
func (s *BookingService) CreateOrder(ctx context.Context, sessionID string, req entities.BookingRequest) (*entities.Order, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err == repositories.ErrSessionNotFound {
		return nil, apperrors.NewNotFoundError("сессия не найдена или истекла")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load session", err)
	}
	if session.State != entities.StateViewingResults {
		return nil, apperrors.NewConflictError("бронирование доступно только на шаге результатов")
	}

	row := findGroupedRow(session.Results, req.ProductID, req.PharmacyID)
	if row == nil {
		return nil, apperrors.NewNotFoundError("товар не найден в текущих результатах")
	}
	if !row.InStock() {
		return nil, apperrors.NewValidationError("товара нет в наличии")
	}

	req.CustomerPhone = entities.CleanPhone(req.CustomerPhone)
	if err := req.Validate(row.Quantity); err != nil {
		return nil, err
	}
	if session.UserID != 0 {
		req.TelegramID = session.UserID
	}

	order, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Str("product_id", req.ProductID).Msg("order creation failed")
		return nil, apperrors.NewExternalError("Не удалось оформить бронь. Попробуйте позже.", err)
	}

	log.Info().Str("order_uuid", order.UUID).Str("session_id", sessionID).Msg("order created")
	return order, nil
}

func findGroupedRow(rows []entities.GroupedRow, productID, pharmacyID string) *entities.GroupedRow {
	for i := range rows {
		if rows[i].UUID == productID && rows[i].PharmacyID == pharmacyID {
			return &rows[i]
		}
	}
	return nil
}
