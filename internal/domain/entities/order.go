package entities

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/errors"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/numeric"
)

// phonePattern accepts an optional leading + followed by up to 16 digits
// not starting with zero. Formatting characters are stripped before the
// match, so "+375 (29) 123-45-67" passes.
var phonePattern = regexp.MustCompile(`^[+]?[1-9][0-9]{0,15}$`)

// BookingRequest is a reservation of a grouped stock row.
type BookingRequest struct {
	ProductID     string  `json:"product_id"`
	PharmacyID    string  `json:"pharmacy_id"`
	Quantity      float64 `json:"quantity"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	TelegramID    int64   `json:"telegram_id,omitempty"`
}

// Order is the upstream confirmation of a booking.
type Order struct {
	UUID      string `json:"uuid"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CleanPhone strips everything except digits and a leading plus sign.
func CleanPhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks the booking against the quantity shown to the user.
// available is the grouped quantity of the row being booked.
func (r *BookingRequest) Validate(available float64) error {
	if strings.TrimSpace(r.CustomerName) == "" {
		return apperrors.NewValidationError("введите ваше имя")
	}
	if strings.TrimSpace(r.CustomerPhone) == "" {
		return apperrors.NewValidationError("введите номер телефона")
	}
	if !phonePattern.MatchString(CleanPhone(r.CustomerPhone)) {
		return apperrors.NewValidationError("введите корректный номер телефона")
	}
	if r.Quantity <= 0 {
		return apperrors.NewValidationError("количество должно быть больше нуля")
	}
	if r.Quantity > available {
		return apperrors.NewValidationError(
			fmt.Sprintf("недостаточно товара, доступно: %s уп.", numeric.FormatQuantity(available)),
		)
	}
	return nil
}
