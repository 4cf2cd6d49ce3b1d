package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mugiliam/hatchschemesrv/internal/common/httpx"
	"github.com/mugiliam/hatchschemesrv/internal/config"
	"github.com/mugiliam/hatchschemesrv/internal/server/middleware"
	"github.com/mugiliam/hatchschemesrv/pkg/api"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const ServerVersion = "SchemeSrv: 1.0.0"

type HatchSchemesServer struct {
	Router *chi.Mux
}

func CreateNewServer() (*HatchSchemesServer, error) {
	s := &HatchSchemesServer{}
	s.Router = chi.NewRouter()
	return s, nil
}

func (s *HatchSchemesServer) MountHandlers() {
	s.Router.Use(middleware.RequestLogger)
	s.Router.Use(chimiddleware.Recoverer)
	if config.Config().HandleCORS {
		s.Router.Use(s.HandleCORS)
	}
	s.Router.Get("/version", s.getVersion)
	s.Router.Route("/schemes", s.mountSchemeHandlers)
	s.Router.Route("/projects/{projectId}/schemes", func(r chi.Router) {
		r.Use(middleware.LoadContext)
		s.mountSchemeHandlers(r)
	})
	if zerolog.GlobalLevel() <= zerolog.TraceLevel {
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			log.Trace().Str("method", method).Str("route", route).Msg("route")
			return nil
		}
		if err := chi.Walk(s.Router, walkFunc); err != nil {
			log.Error().Err(err).Msg("unable to walk routes")
		}
	}
}

func (s *HatchSchemesServer) mountSchemeHandlers(r chi.Router) {
	for _, handler := range schemeHandlers {
		r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
	}
}

func (s *HatchSchemesServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &api.GetVersionRsp{
		ServerVersion: ServerVersion,
		ApiVersion:    api.ApiVersion_1_0,
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}

func (s *HatchSchemesServer) HandleCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", config.Config().CORSOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if r.Method == http.MethodOptions {
			log.Ctx(r.Context()).Debug().Msg("OPTIONS request")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
