package api

import (
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dgallion1/aitrpg/internal/importer"
	"github.com/dgallion1/aitrpg/internal/setting"
	"github.com/dgallion1/aitrpg/internal/store"
)

type importRequest struct {
	Path string `json:"path"`
}

func (r *importRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Path, validation.Required),
	)
}

type lorebookRequest struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Filename string `json:"filename,omitempty"`
}

func (r *lorebookRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Filename, validName),
	)
}

// handleImportTree snapshots a directory for the setting import screens.
func (s *Server) handleImportTree(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	tree, err := s.importer.Import(req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	s.log.Info("directory imported", "component", "importer", "path", tree.Path, "files", importer.CountFiles(tree))
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleImportSettings(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	tree, err := s.importer.Import(req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	cats := setting.ConvertToCategories(tree)
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": cats,
		"summary":    setting.Summary(cats),
		"file_count": importer.CountFiles(tree),
	})
}

// handleImportLorebook builds a lorebook from a directory and, when a
// filename is given, stores it in the lorebooks category.
func (s *Server) handleImportLorebook(w http.ResponseWriter, r *http.Request) {
	var req lorebookRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	tree, err := s.importer.Import(req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	docs := setting.CollectDocuments(setting.ConvertToCategories(tree))
	book := s.lorebooks.ToLorebook(docs, req.Name)

	resp := map[string]any{"lorebook": book}
	if req.Filename != "" {
		data, err := json.MarshalIndent(book, "", "  ")
		if err != nil {
			writeError(w, err)
			return
		}
		msg, err := s.docs[store.Lorebooks.Dir].Save(req.Filename, string(data))
		if err != nil {
			writeError(w, err)
			return
		}
		resp["message"] = msg
	}
	writeJSON(w, http.StatusOK, resp)
}
