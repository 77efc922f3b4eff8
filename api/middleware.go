package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/threadora/threadora-backend/utils"
)

type contextKey string

const userIDKey contextKey = "user_id"

// GetUserIDFromContext returns the authenticated user's ID, if any
func GetUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// AuthMiddleware requires a valid JWT and stores the user ID in context
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			utils.RespondError(w, nil, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		token, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(w, nil, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		userID, err := utils.UserIDFromToken(token)
		if err != nil {
			utils.RespondError(w, nil, "Invalid token claims", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// OptionalAuthMiddleware stores the user ID when a valid token is
// present but lets the request through either way. Guest-capable routes
// (cart, checkout) use this together with OwnerID.
func OptionalAuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tokenString := bearerToken(r); tokenString != "" {
			if token, err := utils.ValidateToken(tokenString); err == nil {
				if userID, err := utils.UserIDFromToken(token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
				}
			}
		}
		next(w, r)
	}
}

// AdminMiddleware guards catalog-management routes with a shared key
func AdminMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminKey := os.Getenv("ADMIN_API_KEY")
		if adminKey == "" || r.Header.Get("X-Admin-Key") != adminKey {
			utils.RespondError(w, nil, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// OwnerID resolves who a cart or order belongs to: the authenticated
// user when logged in, otherwise the client-issued X-Guest-ID.
func OwnerID(r *http.Request) (string, bool, error) {
	if userID, err := GetUserIDFromContext(r.Context()); err == nil {
		return userID, false, nil
	}
	guestID := r.Header.Get("X-Guest-ID")
	if guestID == "" {
		guestID = r.URL.Query().Get("guest_id")
	}
	if guestID == "" {
		return "", false, fmt.Errorf("no user token or guest ID supplied")
	}
	return guestID, true, nil
}
