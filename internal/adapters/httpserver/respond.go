package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/elegante/internal/domain"
)

const maxBodyBytes = 1 << 20

type message struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, message{Message: msg})
}

// failure names the messages a handler reports for a missing resource and for
// an unexpected error.
type failure struct {
	notFound string
	internal string
}

// writeError maps err onto a status and a {message} body. Unexpected errors
// are logged and answered with f.internal.
func writeError(w http.ResponseWriter, r *http.Request, err error, f failure) {
	var verr *domain.ValidationError
	var coded interface{ StatusCode() int }
	var tooLarge cartTooLargeError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, message{Message: verr.Message, Errors: verr.Fields})
	case errors.Is(err, domain.ErrNotFound):
		msg := f.notFound
		if msg == "" {
			msg = "Not found"
		}
		writeMessage(w, http.StatusNotFound, msg)
	case errors.Is(err, domain.ErrDuplicateSubscription):
		writeMessage(w, http.StatusBadRequest, "Email is already subscribed")
	case errors.Is(err, domain.ErrEmptyCart):
		writeMessage(w, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, domain.ErrInvalidCheckoutStep):
		writeMessage(w, http.StatusBadRequest, "Invalid checkout step")
	case errors.As(err, &tooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, "Cart is too large")
	case errors.As(err, &coded):
		writeMessage(w, coded.StatusCode(), err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("request_id", requestIDFrom(r.Context())).Msg("request failed")
		msg := f.internal
		if msg == "" {
			msg = "Internal Server Error"
		}
		writeMessage(w, http.StatusInternalServerError, msg)
	}
}

// decodeJSON reads a JSON body into v. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("body", "json", "must be a valid JSON object")
	}
	return nil
}

// pathID parses a numeric path segment.
func pathID(seg string) (int, bool) {
	id, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return id, true
}

func methodNotAllowed(w http.ResponseWriter, allow ...string) {
	for _, m := range allow {
		w.Header().Add("Allow", m)
	}
	writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}
