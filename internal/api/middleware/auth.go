package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/telegram"
)

// initDataHeader carries the signed Telegram Mini App payload.
const initDataHeader = "X-Telegram-Init-Data"

// TelegramAuthMiddleware validates the mini-app init data when present and
// stores the authenticated user in the request context. Requests without
// the header pass through unauthenticated: the wizard also works as a
// plain web flow.
func TelegramAuthMiddleware(validator *telegram.Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initData := r.Header.Get(initDataHeader)
			if validator == nil || initData == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := validator.Validate(initData)
			if err != nil {
				log.Warn().Err(err).Msg("rejected init data")
				http.Error(w, "invalid init data", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(telegram.ContextWithUser(r.Context(), user)))
		})
	}
}
