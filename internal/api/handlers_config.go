package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type configRequest struct {
	Content *string `json:"content"`
}

func (r *configRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Content, validation.NotNil),
	)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	res, err := s.config.Resolve()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"content": res.Content,
		"source":  string(res.Source),
	})
}

// handlePutConfig stores the content verbatim. It is not checked for JSON.
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.config.Save(*req.Content); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Config saved"})
}
