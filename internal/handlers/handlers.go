package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/internal/http/response"
	"github.com/abdulrazikehab/Dawah-sub000/internal/service"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/auth"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/config"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/logger"
)

type principalKey struct{}

type Handlers struct {
	authService     service.AuthService
	eventService    service.EventService
	registryService service.RegistryService
	rsvpService     service.RSVPService
	checkInService  service.CheckInService
	accessService   service.AccessService
	config          *config.Config
}

func New(
	authService service.AuthService,
	eventService service.EventService,
	registryService service.RegistryService,
	rsvpService service.RSVPService,
	checkInService service.CheckInService,
	accessService service.AccessService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		authService:     authService,
		eventService:    eventService,
		registryService: registryService,
		rsvpService:     rsvpService,
		checkInService:  checkInService,
		accessService:   accessService,
		config:          cfg,
	}
}

// RequireJWT authenticates a staff principal. With a non-empty requiredRole
// only that role passes; admins pass every gate.
func (h *Handlers) RequireJWT(requiredRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Unauthorized(w, "Missing or invalid authorization header")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := auth.Parse(tokenString, h.config.Auth.JWTSecret)
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			role, ok := domain.ParseRole(claims.Role)
			if !ok {
				response.Unauthorized(w, "Invalid token")
				return
			}

			if requiredRole != "" && role != requiredRole && role != domain.RoleAdmin {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			principal := domain.Principal{ID: claims.Sub, Role: role}
			ctx := context.WithValue(r.Context(), logger.UserIDKey, claims.Sub)
			ctx = context.WithValue(ctx, principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWT attaches a principal when a valid token is present but lets
// anonymous requests through. Used on registration, where hosts sign up
// openly and admins create staff.
func (h *Handlers) OptionalJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if claims, err := auth.Parse(tokenString, h.config.Auth.JWTSecret); err == nil {
				if role, ok := domain.ParseRole(claims.Role); ok {
					principal := domain.Principal{ID: claims.Sub, Role: role}
					ctx := context.WithValue(r.Context(), logger.UserIDKey, claims.Sub)
					ctx = context.WithValue(ctx, principalKey{}, principal)
					r = r.WithContext(ctx)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func principalFrom(r *http.Request) (domain.Principal, bool) {
	p, ok := r.Context().Value(principalKey{}).(domain.Principal)
	return p, ok
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
