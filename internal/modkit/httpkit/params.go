package httpkit

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Param returns a trimmed URL path parameter by name
func Param(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}
