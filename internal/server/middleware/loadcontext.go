package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mugiliam/hatchschemesrv/internal/common"
	"github.com/mugiliam/hatchschemesrv/internal/types"
)

// LoadContext puts the project of the request into its context. The project
// comes from the route, or from the projectId query parameter.
func LoadContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		projectId := chi.URLParam(r, "projectId")
		if projectId == "" {
			projectId = r.URL.Query().Get("projectId")
		}
		r = r.WithContext(common.SetProjectIdInContext(r.Context(), types.ProjectId(projectId)))
		next.ServeHTTP(w, r)
	})
}
