package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mugiliam/hatchschemesrv/internal/kinds/colors"
	"github.com/mugiliam/hatchschemesrv/internal/schememanager/factory"
	"github.com/mugiliam/hatchschemesrv/internal/storage/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupFactories registers an application factory and a factory for project
// "p1", both with the color scheme kind, and returns the application one.
func setupFactories(t *testing.T) (factory.Factory, *colors.Manager) {
	app := factory.NewFactory(factory.ApplicationScope(), memstore.New())
	m, err := colors.Register(app)
	require.NoError(t, err)
	p1 := factory.NewFactory(factory.ProjectScope("p1"), memstore.New())
	_, err = colors.Register(p1)
	require.NoError(t, err)

	factory.Reset()
	factory.Register(app)
	factory.RegisterProject("p1", p1)
	t.Cleanup(factory.Reset)
	return app, m
}

func executeTestRequest(t *testing.T, req *http.Request, apiKey *string) *httptest.ResponseRecorder {
	s, err := CreateNewServer()
	assert.NoError(t, err, "create new server")

	if apiKey != nil {
		_ = apiKey
		//auth.SignApiRequest(req, apiKey.KeyId, apiKey.PrivKey)
	}

	// Mount Handlers
	s.MountHandlers()

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func checkHeader(t *testing.T, h http.Header) {
	expected := "application/json"
	got := h.Get("Content-Type")
	assert.Equal(t, expected, got, "Content-Type expected %s, got %s", expected, got)
	assert.NotEmpty(t, h.Get("X-Request-ID"), "No Request Id")
}

func compareJson(t *testing.T, expected any, actual string) {
	j, err := json.Marshal(expected)
	assert.NoError(t, err, "json marshal")
	assert.JSONEq(t, string(j), actual, "Expected: %v\n Got: %v\n", expected, actual)
}
