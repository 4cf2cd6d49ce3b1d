package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mugiliam/hatchschemesrv/internal/common"
	"github.com/mugiliam/hatchschemesrv/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestLoadContext(t *testing.T) {
	var got types.ProjectId
	r := chi.NewRouter()
	r.With(LoadContext).Get("/projects/{projectId}/x", func(w http.ResponseWriter, r *http.Request) {
		got = common.ProjectIdFromContext(r.Context())
	})
	r.With(LoadContext).Get("/x", func(w http.ResponseWriter, r *http.Request) {
		got = common.ProjectIdFromContext(r.Context())
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/projects/p1/x", nil))
	assert.Equal(t, types.ProjectId("p1"), got)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x?projectId=p2", nil))
	assert.Equal(t, types.ProjectId("p2"), got)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, types.ApplicationScope, got)
}

func TestRequestLogger(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(RequestIdHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIdHeader, "abc")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc", rr.Header().Get(RequestIdHeader))
}
