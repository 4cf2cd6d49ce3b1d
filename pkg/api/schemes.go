package api

import (
	"github.com/mugiliam/hatchschemesrv/pkg/scheme"
	"github.com/mugiliam/hatchschemesrv/pkg/types"
)

type ManagerSummary struct {
	ID              string            `json:"id"`
	Directory       string            `json:"directory"`
	PresentableName string            `json:"presentable_name"`
	Roaming         types.RoamingType `json:"roaming"`
	Count           int               `json:"count"`
	Current         string            `json:"current,omitempty"`
}

type ListManagersReq struct{}

func (r ListManagersReq) RequestMethod() (string, string) {
	return "GET", "/schemes"
}

type ListManagersRsp struct {
	Project  string           `json:"project"`
	Managers []ManagerSummary `json:"managers"`
}

type ListSchemesRsp struct {
	Directory       string   `json:"directory"`
	PresentableName string   `json:"presentable_name"`
	Schemes         []string `json:"schemes"`
	Current         string   `json:"current,omitempty"`
}

// GetSchemeRsp carries the serialized form of one scheme. A request with a
// path query returns only the selected part of the document instead.
type GetSchemeRsp struct {
	Directory string          `json:"directory"`
	Name      string          `json:"name"`
	Current   bool            `json:"current"`
	Document  *scheme.Element `json:"document"`
}

type SaveResult struct {
	Directory  string   `json:"directory"`
	Written    []string `json:"written"`
	Unmodified []string `json:"unmodified"`
	Deleted    []string `json:"deleted"`
	Error      string   `json:"error,omitempty"`
}

type SaveSchemesReq struct{}

func (r SaveSchemesReq) RequestMethod() (string, string) {
	return "POST", "/schemes/save"
}

type SaveSchemesRsp struct {
	Results []SaveResult `json:"results"`
}
