package schememanager

import (
	"net/http"

	"github.com/mugiliam/hatchschemesrv/internal/common/apperrors"
)

var (
	ErrSchemeManager     apperrors.Error = apperrors.New("error in scheme manager")
	ErrInvalidScheme     apperrors.Error = ErrSchemeManager.New("invalid scheme").SetStatusCode(http.StatusBadRequest)
	ErrInvalidSchemeName apperrors.Error = ErrInvalidScheme.New("invalid scheme name").SetStatusCode(http.StatusBadRequest)
	ErrSchemeNotFound    apperrors.Error = ErrSchemeManager.New("scheme not found").SetStatusCode(http.StatusNotFound)
	ErrDuplicateScheme   apperrors.Error = ErrSchemeManager.New("duplicate scheme name").SetStatusCode(http.StatusConflict)
	ErrNotMutable        apperrors.Error = ErrSchemeManager.New("scheme has no mutable view")
	ErrExternalization   apperrors.Error = ErrSchemeManager.New("unable to externalize scheme").SetExpandError(true)
	ErrEncoding          apperrors.Error = ErrSchemeManager.New("unable to encode scheme document").SetExpandError(true)
	ErrStorage           apperrors.Error = ErrSchemeManager.New("scheme storage failed").SetExpandError(true)
	ErrLoadNotSupported  apperrors.Error = ErrSchemeManager.New("processor cannot read schemes")
	ErrInvalidDocument   apperrors.Error = ErrSchemeManager.New("invalid scheme document").SetExpandError(true)
	ErrInvalidSettings   apperrors.Error = ErrSchemeManager.New("invalid scheme manager settings").SetExpandError(true)
	ErrNoProcessor       apperrors.Error = ErrInvalidSettings.New("no scheme processor")
	ErrNoStorage         apperrors.Error = ErrInvalidSettings.New("no scheme storage")
)

// SchemeError is the failure of one scheme or file in a save or load cycle.
type SchemeError struct {
	Name string
	Err  error
}

func (e SchemeError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

func (e SchemeError) Unwrap() error {
	return e.Err
}
