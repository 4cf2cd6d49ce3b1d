package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/mugiliam/hatchschemesrv/internal/common"
	"github.com/mugiliam/hatchschemesrv/internal/common/httpx"
	"github.com/mugiliam/hatchschemesrv/internal/schememanager"
	"github.com/mugiliam/hatchschemesrv/internal/schememanager/factory"
	"github.com/mugiliam/hatchschemesrv/internal/types"
	"github.com/mugiliam/hatchschemesrv/pkg/api"
	"github.com/tidwall/gjson"
)

var schemeHandlers = []httpx.HandlerParam{
	{
		Method:  http.MethodGet,
		Path:    "/",
		Handler: listManagers,
	},
	{
		Method:  http.MethodPost,
		Path:    "/save",
		Handler: saveSchemes,
	},
	{
		Method:  http.MethodGet,
		Path:    "/{directory}",
		Handler: listSchemes,
	},
	{
		Method:  http.MethodGet,
		Path:    "/{directory}/{name}",
		Handler: getScheme,
	},
}

func factoryFromRequest(r *http.Request) (factory.Factory, error) {
	projectId := common.ProjectIdFromContext(r.Context())
	if projectId == types.ApplicationScope {
		return factory.Instance(), nil
	}
	if !factory.HasProjectInstance(projectId) {
		return nil, httpx.ErrNotFound.Msg("project " + string(projectId) + " not found")
	}
	return factory.ProjectInstance(projectId), nil
}

// urlParam returns the unescaped route parameter, so nested directories can
// be addressed as "options%2Fcolors".
func urlParam(r *http.Request, key string) (string, error) {
	v, err := url.PathUnescape(chi.URLParam(r, key))
	if err != nil {
		return "", httpx.ErrInvalidRequest.Msg("invalid " + key)
	}
	return v, nil
}

func managerFromRequest(r *http.Request) (schememanager.Managed, error) {
	f, err := factoryFromRequest(r)
	if err != nil {
		return nil, err
	}
	dir, err := urlParam(r, "directory")
	if err != nil {
		return nil, err
	}
	m, ok := f.Manager(dir)
	if !ok {
		return nil, httpx.ErrNotFound.Msg("no schemes in directory " + dir)
	}
	return m, nil
}

func listManagers(r *http.Request) (*httpx.Response, error) {
	f, err := factoryFromRequest(r)
	if err != nil {
		return nil, err
	}
	rsp := &api.ListManagersRsp{
		Project:  string(f.Scope().ProjectID),
		Managers: []api.ManagerSummary{},
	}
	for _, m := range f.Managers() {
		rsp.Managers = append(rsp.Managers, api.ManagerSummary{
			ID:              m.ID().String(),
			Directory:       m.DirectoryName(),
			PresentableName: m.PresentableName(),
			Roaming:         m.RoamingType(),
			Count:           m.Len(),
			Current:         m.CurrentName(),
		})
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: rsp}, nil
}

func listSchemes(r *http.Request) (*httpx.Response, error) {
	m, err := managerFromRequest(r)
	if err != nil {
		return nil, err
	}
	rsp := &api.ListSchemesRsp{
		Directory:       m.DirectoryName(),
		PresentableName: m.PresentableName(),
		Schemes:         m.AllSchemeNames(),
		Current:         m.CurrentName(),
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: rsp}, nil
}

func getScheme(r *http.Request) (*httpx.Response, error) {
	m, err := managerFromRequest(r)
	if err != nil {
		return nil, err
	}
	name, err := urlParam(r, "name")
	if err != nil {
		return nil, err
	}
	doc, err := m.Document(name)
	if err != nil {
		return nil, err
	}
	rsp := &api.GetSchemeRsp{
		Directory: m.DirectoryName(),
		Name:      name,
		Current:   m.CurrentName() == name,
		Document:  doc,
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		return &httpx.Response{StatusCode: http.StatusOK, Response: rsp}, nil
	}
	j, err := json.Marshal(rsp)
	if err != nil {
		return nil, err
	}
	result := gjson.GetBytes(j, path)
	if !result.Exists() {
		return nil, httpx.ErrNotFound.Msg("path " + path + " not found")
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: json.RawMessage(result.Raw)}, nil
}

func saveSchemes(r *http.Request) (*httpx.Response, error) {
	f, err := factoryFromRequest(r)
	if err != nil {
		return nil, err
	}
	// failures are reported per directory
	results, _ := f.SaveAll(r.Context())
	rsp := &api.SaveSchemesRsp{Results: make([]api.SaveResult, 0, len(results))}
	for _, res := range results {
		out := api.SaveResult{Directory: res.Directory, Error: res.Error}
		if res.Report != nil {
			out.Written = res.Report.Written
			out.Unmodified = res.Report.Unmodified
			out.Deleted = res.Report.Deleted
		}
		rsp.Results = append(rsp.Results, out)
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: rsp}, nil
}
