// Package admin provides the HTTP handlers for key administration.
package admin

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/artpar/sportsgate/adapters/http/respond"
	"github.com/artpar/sportsgate/app"
	"github.com/artpar/sportsgate/domain/gateway"
	"github.com/artpar/sportsgate/domain/key"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// MaxBodyBytes caps admin request bodies.
const MaxBodyBytes = 1_000_000

// TokenHeader carries the admin credential.
const TokenHeader = "X-Admin-Token"

// Handler provides the admin endpoints.
type Handler struct {
	gw     *app.Gateway
	logger zerolog.Logger
}

// NewHandler creates a new admin API handler.
func NewHandler(gw *app.Gateway, logger zerolog.Logger) *Handler {
	return &Handler{gw: gw, logger: logger}
}

// Router returns the admin API router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		r.Post("/create-key", h.CreateKey)
		r.Post("/revoke-key", h.RevokeKey)
	})

	return r
}

// AuthMiddleware rejects requests without a valid admin token.
// It runs before the body is read.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.gw.AuthorizeAdmin(r.Header.Get(TokenHeader)) {
			h.logger.Debug().Str("path", r.URL.Path).Msg("admin token rejected")
			respond.Error(w, gateway.ErrAdminUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateKeyRequest is the body of POST /admin/create-key. Fields are read
// loosely: numbers and true are accepted as their string form.
type CreateKeyRequest struct {
	UserID string `json:"userId"`
	Plan   string `json:"plan,omitempty"`
}

func createKeyRequest(body map[string]any) CreateKeyRequest {
	return CreateKeyRequest{
		UserID: stringField(body, "userId"),
		Plan:   stringField(body, "plan"),
	}
}

// CreateKeyResponse is returned after a key is issued.
type CreateKeyResponse struct {
	APIKey    string `json:"apiKey"`
	UserID    string `json:"userId"`
	Plan      string `json:"plan"`
	CreatedAt string `json:"createdAt"`
}

// CreateKey issues a new API key.
//
//	@Summary		Create key
//	@Description	Issue a new API key for a user on a plan (default free)
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateKeyRequest	true	"Key data"
//	@Success		201		{object}	CreateKeyResponse	"Created key"
//	@Failure		400		{object}	map[string]any		"Invalid request"
//	@Failure		401		{object}	map[string]any		"Admin token required"
//	@Security		AdminAuth
//	@Router			/admin/create-key [post]
func (h *Handler) CreateKey(w http.ResponseWriter, r *http.Request) {
	body, errResp := readBody(w, r)
	if errResp != nil {
		respond.Error(w, *errResp)
		return
	}

	req := createKeyRequest(body)
	rec, err := h.gw.CreateKey(r.Context(), req.UserID, req.Plan)
	switch {
	case err == nil:
	case errors.Is(err, key.ErrOwnerRequired):
		respond.Error(w, gateway.BadRequest("userId required"))
		return
	case errors.Is(err, key.ErrInvalidPlan):
		respond.Error(w, gateway.UnsupportedPlan(h.gw.SupportedPlans()))
		return
	default:
		h.logger.Error().Err(err).Msg("failed to create key")
		respond.Error(w, gateway.ErrorResponse{
			Status:  http.StatusInternalServerError,
			Code:    gateway.CodeInternal,
			Message: "Failed to create key",
		})
		return
	}

	respond.JSON(w, http.StatusCreated, CreateKeyResponse{
		APIKey:    rec.Key,
		UserID:    rec.OwnerID,
		Plan:      rec.Plan,
		CreatedAt: respond.Time(rec.CreatedAt),
	})
}

// RevokeKeyRequest is the body of POST /admin/revoke-key.
type RevokeKeyRequest struct {
	APIKey string `json:"apiKey"`
}

func revokeKeyRequest(body map[string]any) RevokeKeyRequest {
	return RevokeKeyRequest{APIKey: strings.TrimSpace(stringField(body, "apiKey"))}
}

// RevokeKeyResponse confirms a revocation.
type RevokeKeyResponse struct {
	Success bool   `json:"success"`
	APIKey  string `json:"apiKey"`
}

// RevokeKey revokes an API key.
//
//	@Summary		Revoke key
//	@Description	Revoke an API key. Usage recorded so far is kept.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RevokeKeyRequest	true	"Key to revoke"
//	@Success		200		{object}	RevokeKeyResponse	"Revoked"
//	@Failure		400		{object}	map[string]any		"Invalid request"
//	@Failure		404		{object}	map[string]any		"API key not found"
//	@Security		AdminAuth
//	@Router			/admin/revoke-key [post]
func (h *Handler) RevokeKey(w http.ResponseWriter, r *http.Request) {
	body, errResp := readBody(w, r)
	if errResp != nil {
		respond.Error(w, *errResp)
		return
	}

	apiKey := revokeKeyRequest(body).APIKey
	if apiKey == "" {
		respond.Error(w, gateway.BadRequest("apiKey required"))
		return
	}

	if err := h.gw.RevokeKey(r.Context(), apiKey); err != nil {
		if errors.Is(err, key.ErrKeyNotFound) {
			respond.Error(w, gateway.ErrKeyNotFound)
			return
		}
		h.logger.Error().Err(err).Msg("failed to revoke key")
		respond.Error(w, gateway.ErrorResponse{
			Status:  http.StatusInternalServerError,
			Code:    gateway.CodeInternal,
			Message: "Failed to revoke key",
		})
		return
	}

	respond.JSON(w, http.StatusOK, RevokeKeyResponse{Success: true, APIKey: apiKey})
}

// readBody decodes a JSON request body. An empty body is an empty object, and
// so is any valid JSON that is not an object.
func readBody(w http.ResponseWriter, r *http.Request) (map[string]any, *gateway.ErrorResponse) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			resp := gateway.BadRequest("Payload too large")
			return nil, &resp
		}
		resp := gateway.BadRequest("Invalid JSON body")
		return nil, &resp
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		resp := gateway.BadRequest("Invalid JSON body")
		return nil, &resp
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return obj, nil
}

// stringField reads a loosely typed body field. Strings are returned as is,
// numbers and true are formatted, anything else is empty.
func stringField(body map[string]any, name string) string {
	switch v := body[name].(type) {
	case string:
		return v
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "true"
		}
	}
	return ""
}
