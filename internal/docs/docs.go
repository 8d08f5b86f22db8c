// Package docs serves the OpenAPI description of the catalog API.
package docs

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.yaml
var document []byte

// Handler writes the embedded OpenAPI document.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(document)
}
