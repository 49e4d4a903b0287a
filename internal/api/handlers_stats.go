package api

import (
	"net/http"

	"github.com/dgallion1/aitrpg/internal/logsink"
	"github.com/dgallion1/aitrpg/internal/store"
)

// handleStats reports where data lives and how many documents each category
// holds.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int, len(store.Categories))
	for _, c := range store.Categories {
		names, err := s.docs[c.Dir].List()
		if err != nil {
			writeError(w, err)
			return
		}
		counts[c.Dir] = len(names)
	}
	logs, err := logsink.ListFiles(s.paths.LogsDir())
	if err != nil {
		writeError(w, err)
		return
	}

	cfg, err := s.config.Resolve()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data_dir":      s.paths.Root(),
		"documents":     counts,
		"log_files":     len(logs),
		"config_source": cfg.Source,
		"log_file":      s.sinkPath(),
	})
}

func (s *Server) sinkPath() string {
	if s.sink == nil {
		return ""
	}
	return s.sink.Path()
}
