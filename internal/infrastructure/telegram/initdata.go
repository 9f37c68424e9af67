// Package telegram validates Telegram Mini App init data and exposes the
// authenticated user as a host capability.
package telegram

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/providers"
	apperrors "github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/errors"
)

// MaxInitDataAge bounds how old a signed init-data payload may be.
const MaxInitDataAge = 24 * time.Hour

type contextKey string

const userContextKey contextKey = "miniapp_user"

// Validator checks init-data signatures against the bot token.
type Validator struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewValidator derives the signing secret from the bot token.
func NewValidator(botToken string) *Validator {
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))
	return &Validator{
		secret: mac.Sum(nil),
		maxAge: MaxInitDataAge,
		now:    time.Now,
	}
}

// Validate verifies the init-data signature and freshness, returning the
// embedded user on success.
func (v *Validator) Validate(initData string) (*providers.MiniAppUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("malformed init data")
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, apperrors.NewUnauthorizedError("init data missing hash")
	}
	values.Del("hash")

	if !hmac.Equal([]byte(hash), []byte(v.sign(values))) {
		return nil, apperrors.NewUnauthorizedError("init data signature mismatch")
	}

	if authDate := values.Get("auth_date"); authDate != "" {
		unix, err := strconv.ParseInt(authDate, 10, 64)
		if err != nil {
			return nil, apperrors.NewUnauthorizedError("invalid auth_date")
		}
		if v.now().Sub(time.Unix(unix, 0)) > v.maxAge {
			return nil, apperrors.NewUnauthorizedError("init data expired")
		}
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, apperrors.NewUnauthorizedError("init data missing user")
	}

	var user providers.MiniAppUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid user payload")
	}
	if user.ID == 0 {
		return nil, apperrors.NewUnauthorizedError("init data user has no id")
	}

	return &user, nil
}

// sign computes the hex HMAC over the sorted key=value data-check string.
func (v *Validator) sign(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, values.Get(k)))
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

// Host adapts validated init data into the HostCapabilities port.
type Host struct{}

// User returns the mini-app user previously stored in the context by the
// auth middleware, or false when the request came from outside Telegram.
func (Host) User(ctx context.Context) (*providers.MiniAppUser, bool) {
	user, ok := ctx.Value(userContextKey).(*providers.MiniAppUser)
	return user, ok && user != nil
}

// ContextWithUser stores the validated user in the request context.
func ContextWithUser(ctx context.Context, user *providers.MiniAppUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
