package dberror

import (
	"net/http"

	"github.com/mugiliam/hatchschemesrv/internal/common/apperrors"
)

var (
	ErrDatabase      apperrors.Error = apperrors.New("db error").SetStatusCode(http.StatusInternalServerError)
	ErrAlreadyExists apperrors.Error = ErrDatabase.Msg("already exists").SetStatusCode(http.StatusConflict)
	ErrNotFound      apperrors.Error = ErrDatabase.Msg("not found").SetStatusCode(http.StatusNotFound)
	ErrInvalidInput  apperrors.Error = ErrDatabase.Msg("invalid input").SetStatusCode(http.StatusBadRequest)
	ErrNoConnection  apperrors.Error = ErrDatabase.Msg("no database connection").SetStatusCode(http.StatusServiceUnavailable)
	ErrCorruptData   apperrors.Error = ErrDatabase.Msg("corrupt data")
)
