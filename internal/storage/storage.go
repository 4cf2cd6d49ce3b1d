// Package storage defines the persistence collaborator scheme managers write
// through. A directory groups the files of one scheme kind.
package storage

import (
	"context"
	"net/http"

	"github.com/mugiliam/hatchschemesrv/internal/common/apperrors"
	"github.com/mugiliam/hatchschemesrv/pkg/types"
)

type Storage interface {
	// Read returns the content of dir/file, or ErrNotFound.
	Read(ctx context.Context, dir, file string) ([]byte, error)
	// Write creates or replaces dir/file. The roaming type is metadata for
	// the sync collaborator; it never prevents a local write.
	Write(ctx context.Context, dir, file string, data []byte, roaming types.RoamingType) error
	// Delete removes dir/file. Deleting a missing file is not an error.
	Delete(ctx context.Context, dir, file string) error
	// List returns the file names in dir in lexical order.
	List(ctx context.Context, dir string) ([]string, error)
}

var (
	ErrStorage      apperrors.Error = apperrors.New("storage error")
	ErrNotFound     apperrors.Error = ErrStorage.New("file not found").SetStatusCode(http.StatusNotFound)
	ErrInvalidPath  apperrors.Error = ErrStorage.New("invalid storage path").SetStatusCode(http.StatusBadRequest)
	ErrUnavailable  apperrors.Error = ErrStorage.New("storage unavailable").SetStatusCode(http.StatusServiceUnavailable)
	ErrWriteFailed  apperrors.Error = ErrStorage.New("unable to write file").SetExpandError(true)
	ErrDeleteFailed apperrors.Error = ErrStorage.New("unable to delete file").SetExpandError(true)
)
