package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/render"

	"productapi/internal/catalog"
)

// DataResponse is the success envelope
type DataResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// VersionedResponse is the success envelope of header-versioned listings
type VersionedResponse struct {
	Success bool             `json:"success"`
	Version catalog.Version  `json:"version"`
	Data    []catalog.Record `json:"data"`
}

func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, DataResponse{Success: true, Data: data})
}

func respondText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := render.DecodeJSON(r.Body, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
