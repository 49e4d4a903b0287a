package api

import (
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/aitrpg/internal/logsink"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

type logRequest struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

func (r *logRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&r.Message, validation.Required),
	)
}

// handleWriteLog records a line from the front end in the shared log file.
func (s *Server) handleWriteLog(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if s.sink == nil {
		jsonError(w, "log sink unavailable", http.StatusServiceUnavailable)
		return
	}
	s.sink.Write(logLevels[req.Level], req.Context, req.Message)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	names, err := logsink.ListFiles(s.paths.LogsDir())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": names})
}

func (s *Server) handleReadLog(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	content, err := logsink.ReadFile(s.paths.LogsDir(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name, "content": content})
}
