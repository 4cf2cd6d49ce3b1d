// Package httpx holds the JSON response helpers shared by the HTTP handlers.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mugiliam/hatchschemesrv/internal/common/apperrors"
	"github.com/rs/zerolog/log"
)

// Response is what a RequestHandler returns on success. Response is sent as
// is when it holds a json.RawMessage or []byte, otherwise it is marshaled.
type Response struct {
	StatusCode int
	Location   string
	Response   any
}

type RequestHandler func(r *http.Request) (*Response, error)

type HandlerParam struct {
	Method  string
	Path    string
	Handler RequestHandler
}

type ErrorRsp struct {
	Result string `json:"result"`
	Error  string `json:"error"`
}

func SendJsonRsp(ctx context.Context, w http.ResponseWriter, statusCode int, rsp any) {
	var (
		b   []byte
		err error
	)
	switch v := rsp.(type) {
	case json.RawMessage:
		b = v
	case []byte:
		b = v
	default:
		b, err = json.Marshal(rsp)
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to marshal response")
		statusCode = http.StatusInternalServerError
		b, _ = json.Marshal(ErrorRsp{Result: "error", Error: "unable to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(b); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to write response")
	}
}

// SendError maps err to a status code and sends it. Application errors
// carry their own status code; anything else is an internal error whose
// details are only logged.
func SendError(ctx context.Context, w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	msg := http.StatusText(statusCode)
	var appErr apperrors.Error
	if errors.As(err, &appErr) {
		statusCode = appErr.StatusCode()
		if statusCode == 0 {
			statusCode = http.StatusInternalServerError
		}
		msg = appErr.Error()
	}
	if statusCode >= http.StatusInternalServerError {
		log.Ctx(ctx).Error().Err(err).Msg("request failed")
	}
	SendJsonRsp(ctx, w, statusCode, ErrorRsp{Result: "error", Error: msg})
}

func WrapHttpRsp(h RequestHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rsp, err := h(r)
		if err != nil {
			SendError(r.Context(), w, err)
			return
		}
		if rsp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if rsp.Location != "" {
			w.Header().Set("Location", rsp.Location)
		}
		statusCode := rsp.StatusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}
		SendJsonRsp(r.Context(), w, statusCode, rsp.Response)
	}
}

var (
	ErrHttp           apperrors.Error = apperrors.New("http error")
	ErrInvalidRequest apperrors.Error = ErrHttp.New("invalid request").SetStatusCode(http.StatusBadRequest)
	ErrNotFound       apperrors.Error = ErrHttp.New("not found").SetStatusCode(http.StatusNotFound)
)
