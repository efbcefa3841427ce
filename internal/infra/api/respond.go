package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"bos-storefront/internal/domain"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// decodeJSON treats an empty body as an empty object.
func decodeJSON(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return domain.ErrInvalidArgument
	}
	return nil
}

// statusFor maps the domain error taxonomy onto HTTP.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, "license code not found"
	case errors.Is(err, domain.ErrPlanNotFound):
		return http.StatusNotFound, "plan not found"
	case errors.Is(err, domain.ErrNoSubscription):
		return http.StatusNotFound, "no subscription found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrCodeAlreadyUsed):
		return http.StatusBadRequest, "license code already used"
	case errors.Is(err, domain.ErrCodeExpired):
		return http.StatusBadRequest, "license code has expired"
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrSubscriptionExists):
		return http.StatusConflict, "tenant already has a subscription"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "already exists"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "too many attempts, try again later"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
