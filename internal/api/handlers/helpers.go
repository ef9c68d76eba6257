package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/kruthikhak/Care-Connect/internal/api/middleware"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
)

const maxBodyBytes = 1 << 20

func respondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps err to its HTTP status. Unclassified errors are
// logged and hidden behind a generic message.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		message := "internal server error"
		if status == http.StatusBadGateway {
			message = "upstream service unavailable"
		}
		respondWithError(w, status, message)
		return
	}

	message := err.Error()
	if appErr, ok := apperrors.As(err); ok {
		message = appErr.Message
	}
	respondWithError(w, status, message)
}

func statusForError(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeInvalidQuery:
		return http.StatusBadRequest
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeNotFound, apperrors.ErrorTypeEmptyInput:
		return http.StatusNotFound
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	case apperrors.ErrorTypeInvalidRecord:
		return http.StatusUnprocessableEntity
	case apperrors.ErrorTypeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrorTypeExternal:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewValidationError("request body is required")
		}
		return apperrors.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}

// roundDistance rounds kilometres to one decimal place for presentation.
// Ranking always uses the unrounded value.
func roundDistance(km *float64) *float64 {
	if km == nil {
		return nil
	}
	rounded := math.Round(*km*10) / 10
	return &rounded
}

func parseFloatParam(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, apperrors.NewInvalidQueryError(name + " must be a number")
	}
	return &v, nil
}

func parseIntParam(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.NewInvalidQueryError(name + " must be an integer")
	}
	return &v, nil
}

func parseBoolParam(r *http.Request, name string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewInvalidQueryError(name + " must be true or false")
	}
	return v, nil
}

// pagination reads limit and offset, bounding limit to [1, 100].
func pagination(r *http.Request, defaultLimit int) (int, int, error) {
	limit, err := parseIntParam(r, "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := parseIntParam(r, "offset")
	if err != nil {
		return 0, 0, err
	}
	l, o := defaultLimit, 0
	if limit != nil {
		l = min(max(*limit, 1), 100)
	}
	if offset != nil {
		if *offset < 0 {
			return 0, 0, apperrors.NewInvalidQueryError("offset must be non-negative")
		}
		o = *offset
	}
	return l, o, nil
}

// currentUserID returns the authenticated user, writing 401 when absent.
func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.Subject == "" {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return claims.Subject, true
}
