package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dgallion1/aitrpg/internal/importer"
	"github.com/dgallion1/aitrpg/internal/logsink"
	"github.com/dgallion1/aitrpg/internal/store"
)

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeError maps err onto a status code by its sentinel.
func writeError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.As(err, &verrs),
		errors.Is(err, errBadRequest),
		errors.Is(err, store.ErrInvalidName),
		errors.Is(err, logsink.ErrBadName):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrUnknownCategory),
		errors.Is(err, importer.ErrPathNotFound),
		errors.Is(err, fs.ErrNotExist):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

// decode reads a size-limited JSON body into v and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v validation.Validatable) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: invalid json: %w", errBadRequest, err)
	}
	return v.Validate()
}

// validName adapts store.ValidateName to an ozzo rule.
var validName = validation.By(func(value any) error {
	name, _ := value.(string)
	if name == "" {
		return nil
	}
	return store.ValidateName(name)
})
