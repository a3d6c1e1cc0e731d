package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/storefront-service/internal/auth"
	"github.com/vasiliy-maslov/storefront-service/internal/order"
	"github.com/vasiliy-maslov/storefront-service/internal/sequence"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
	"github.com/vasiliy-maslov/storefront-service/internal/user"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

// pathParam returns the decoded value of a route parameter. chi matches on
// the raw path when the client percent-encoded it, so "ann%40example.com"
// must come back as "ann@example.com".
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return v
	}
	return decoded
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Message: message})
}

// respondWithJSON writes payload with code. A nil payload is written as the
// JSON literal null.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Type("payload_type", payload).Msg("Failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondWithServiceError maps err to a status code. Client errors echo the
// error text; server errors hide it behind fallback.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	code := mapErrorToStatusCode(err)
	if code >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(fallback)
		respondWithError(w, code, fallback)
		return
	}
	log.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Int("status", code).Msg("Request rejected")
	respondWithError(w, code, err.Error())
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, user.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, store.ErrEmptyUpdate),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, auth.ErrMissingEmail),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrMissingEmail),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, sequence.ErrInvalidKind):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrEmailExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			details[fe.Field()] = "is required"
		case "email":
			details[fe.Field()] = "must be a valid email"
		case "min":
			details[fe.Field()] = "must be at least " + fe.Param()
		case "oneof":
			details[fe.Field()] = "must be one of: " + fe.Param()
		default:
			details[fe.Field()] = "failed on " + fe.Tag()
		}
	}
	return details
}

// decodeAndValidate reads the JSON body into dst and validates it, writing
// the 400 response itself when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}

	if err := v.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Message: "validation failed",
				Details: formatValidationErrors(validationErrors),
			})
			return false
		}
		log.Ctx(r.Context()).Error().Err(err).Type("validation_error_type", err).Msg("Unexpected error type during validation")
		respondWithError(w, http.StatusInternalServerError, "internal validation error")
		return false
	}
	return true
}

func validationFailed(w http.ResponseWriter, field, msg string) {
	respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Message: "validation failed",
		Details: map[string]string{field: msg},
	})
}
