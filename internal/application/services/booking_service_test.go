package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/adapters/sessions"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
	apperrors "github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/errors"
)

func bookingFixture(t *testing.T, api *fakeAPI) (*BookingService, *entities.Session) {
	t.Helper()

	store := sessions.NewMemoryStore()
	session := entities.NewSession("sess-1")
	session.State = entities.StateViewingResults
	session.UserID = 777
	session.Results = []entities.GroupedRow{
		{
			UUID:       "u-1",
			Name:       "Анальгин",
			Quantity:   5,
			Price:      1.5,
			PharmacyID: "ph-1",
		},
		{
			UUID:       "u-2",
			Name:       "Анальгин",
			Quantity:   0,
			PharmacyID: "ph-2",
		},
	}
	require.NoError(t, store.Save(context.Background(), session, time.Minute))

	return NewBookingService(api, store), session
}

func validBooking() entities.BookingRequest {
	return entities.BookingRequest{
		ProductID:     "u-1",
		PharmacyID:    "ph-1",
		Quantity:      2,
		CustomerName:  "Иван",
		CustomerPhone: "+375 (29) 123-45-67",
	}
}

func TestCreateOrderSuccess(t *testing.T) {
	api := &fakeAPI{
		create: func(ctx context.Context, req entities.BookingRequest) (*entities.Order, error) {
			// The phone is cleaned and the session user attached before the
			// request goes upstream.
			assert.Equal(t, "+375291234567", req.CustomerPhone)
			assert.Equal(t, int64(777), req.TelegramID)
			return &entities.Order{UUID: "o-1", Status: "pending"}, nil
		},
	}
	svc, session := bookingFixture(t, api)

	order, err := svc.CreateOrder(context.Background(), session.ID, validBooking())
	require.NoError(t, err)
	assert.Equal(t, "o-1", order.UUID)
}

func TestCreateOrderQuantityExceedsAvailable(t *testing.T) {
	svc, session := bookingFixture(t, &fakeAPI{})

	req := validBooking()
	req.Quantity = 10
	_, err := svc.CreateOrder(context.Background(), session.ID, req)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetType(err))
	// The message names the quantity the user could still book.
	assert.Contains(t, err.Error(), "5")
}

func TestCreateOrderRejectsBadPhone(t *testing.T) {
	svc, session := bookingFixture(t, &fakeAPI{})

	req := validBooking()
	req.CustomerPhone = "abc"
	_, err := svc.CreateOrder(context.Background(), session.ID, req)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetType(err))
}

func TestCreateOrderOutOfStockRow(t *testing.T) {
	svc, session := bookingFixture(t, &fakeAPI{})

	req := validBooking()
	req.ProductID = "u-2"
	req.PharmacyID = "ph-2"
	req.Quantity = 1
	_, err := svc.CreateOrder(context.Background(), session.ID, req)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetType(err))
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, session := bookingFixture(t, &fakeAPI{})

	req := validBooking()
	req.ProductID = "missing"
	_, err := svc.CreateOrder(context.Background(), session.ID, req)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.GetType(err))
}

func TestCreateOrderWrongState(t *testing.T) {
	api := &fakeAPI{}
	store := sessions.NewMemoryStore()
	session := entities.NewSession("sess-2")
	require.NoError(t, store.Save(context.Background(), session, time.Minute))

	svc := NewBookingService(api, store)
	_, err := svc.CreateOrder(context.Background(), session.ID, validBooking())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.GetType(err))
}

func TestCreateOrderUpstreamFailure(t *testing.T) {
	api := &fakeAPI{
		create: func(ctx context.Context, req entities.BookingRequest) (*entities.Order, error) {
			return nil, errors.New("upstream down")
		},
	}
	svc, session := bookingFixture(t, api)

	_, err := svc.CreateOrder(context.Background(), session.ID, validBooking())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeExternal, apperrors.GetType(err))
}
