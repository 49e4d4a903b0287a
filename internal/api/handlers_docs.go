package api

import (
	"fmt"
	"net/http"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/aitrpg/internal/store"
)

type saveRequest struct {
	Content *string `json:"content"`
}

func (r *saveRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Content, validation.NotNil),
	)
}

type importWorldlineRequest struct {
	Filename string  `json:"filename"`
	Content  *string `json:"content"`
}

func (r *importWorldlineRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Filename, validation.Required, validName),
		validation.Field(&r.Content, validation.NotNil),
	)
}

// documentStore resolves the {category} URL parameter.
func (s *Server) documentStore(r *http.Request) (*store.DocumentStore, error) {
	c, err := store.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		return nil, err
	}
	return s.docs[c.Dir], nil
}

// filenameParam returns the decoded {filename}. chi matches on RawPath when
// it is set, so only then is the parameter still escaped.
func filenameParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "filename")
	if r.URL.RawPath == "" {
		return name, nil
	}
	name, err := url.PathUnescape(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", store.ErrInvalidName, err)
	}
	return name, nil
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ds, err := s.documentStore(r)
	if err != nil {
		writeError(w, err)
		return
	}
	names, err := ds.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": names})
}

func (s *Server) handleLoadDocument(w http.ResponseWriter, r *http.Request) {
	ds, err := s.documentStore(r)
	if err != nil {
		writeError(w, err)
		return
	}
	name, err := filenameParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	content, err := ds.Load(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"filename": name, "content": content})
}

func (s *Server) handleSaveDocument(w http.ResponseWriter, r *http.Request) {
	ds, err := s.documentStore(r)
	if err != nil {
		writeError(w, err)
		return
	}
	name, err := filenameParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req saveRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	msg, err := ds.Save(name, *req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	ds, err := s.documentStore(r)
	if err != nil {
		writeError(w, err)
		return
	}
	name, err := filenameParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	msg, err := ds.Delete(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (s *Server) handleExportWorldline(w http.ResponseWriter, r *http.Request) {
	name, err := filenameParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	content, err := s.docs[store.Worldlines.Dir].Export(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"filename": name, "content": content})
}

func (s *Server) handleImportWorldline(w http.ResponseWriter, r *http.Request) {
	var req importWorldlineRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	msg, err := s.docs[store.Worldlines.Dir].Import(req.Filename, *req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}
