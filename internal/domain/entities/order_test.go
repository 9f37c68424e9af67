package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/errors"
)

func validBooking() BookingRequest {
	return BookingRequest{
		ProductID:     "prod-1",
		PharmacyID:    "ph-12",
		Quantity:      1,
		CustomerName:  "Иван",
		CustomerPhone: "+375291234567",
	}
}

func TestBookingValidateAccepts(t *testing.T) {
	b := validBooking()
	assert.NoError(t, b.Validate(5))
}

func TestBookingValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		ok    bool
	}{
		{"international", "+375291234567", true},
		{"formatted", "+375 (29) 123-45-67", true},
		{"local digits", "80291234567", false},
		{"letters", "abc", false},
		{"empty", "", false},
		{"too long", "+37529123456789012345", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			b.CustomerPhone = tt.phone
			err := b.Validate(5)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestBookingValidateName(t *testing.T) {
	b := validBooking()
	b.CustomerName = "   "
	err := b.Validate(5)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestBookingValidateQuantity(t *testing.T) {
	b := validBooking()
	b.Quantity = 10

	err := b.Validate(5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5", "message must state the available amount")

	b.Quantity = 0
	assert.Error(t, b.Validate(5))

	b.Quantity = 5
	assert.NoError(t, b.Validate(5))
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "+375291234567", CleanPhone("+375 (29) 123-45-67"))
	assert.Equal(t, "375291234567", CleanPhone("375-29-123 45 67"))
	assert.Equal(t, "", CleanPhone("нет"))
}
