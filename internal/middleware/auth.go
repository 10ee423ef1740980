package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/micahlt/scratchverifier/internal/service"
)

type contextKey string

const ClientIDContextKey contextKey = "client_id"

// GetClientID returns the authenticated client id stored by AuthMiddleware.
func GetClientID(ctx context.Context) (int64, bool) {
	clientID, ok := ctx.Value(ClientIDContextKey).(int64)
	return clientID, ok
}

// AuthMiddleware authenticates clients via HTTP Basic auth: the username is
// the numeric client id, the password the 64-hex token.
type AuthMiddleware struct {
	clients *service.ClientService
}

func NewAuthMiddleware(clients *service.ClientService) *AuthMiddleware {
	return &AuthMiddleware{clients: clients}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, token, ok := r.BasicAuth()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Missing client credentials",
			})
			return
		}

		clientID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Client id must be numeric",
			})
			return
		}

		matches, err := m.clients.Matches(r.Context(), clientID, token)
		if err != nil {
			log.Error().Err(err).Msg("auth middleware: database error")
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Authentication failed",
			})
			return
		}

		if !matches {
			log.Warn().Int64("client_id", clientID).Msg("auth middleware: invalid credential attempt")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Invalid client credentials",
			})
			return
		}

		ctx := context.WithValue(r.Context(), ClientIDContextKey, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
