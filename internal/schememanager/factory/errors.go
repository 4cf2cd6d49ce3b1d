package factory

import (
	"net/http"

	"github.com/mugiliam/hatchschemesrv/internal/common/apperrors"
)

var (
	ErrFactory              apperrors.Error = apperrors.New("error in scheme manager factory")
	ErrInvalidDirectory     apperrors.Error = ErrFactory.New("invalid directory name").SetStatusCode(http.StatusBadRequest)
	ErrDuplicateDirectory   apperrors.Error = ErrFactory.New("directory already managed").SetStatusCode(http.StatusConflict)
	ErrFactoryNotRegistered apperrors.Error = ErrFactory.New("scheme manager factory not registered").SetStatusCode(http.StatusServiceUnavailable)
)
