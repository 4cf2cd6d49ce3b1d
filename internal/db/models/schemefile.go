package models

import (
	"time"

	"github.com/jackc/pgtype"
	"github.com/mugiliam/hatchschemesrv/internal/types"
)

// SchemeFile model definition. Content is snappy compressed.
type SchemeFile struct {
	ProjectID types.ProjectId `db:"project_id"`
	Directory string          `db:"directory"`
	FileName  string          `db:"file_name"`
	Content   []byte          `db:"content"`
	Info      pgtype.JSONB    `db:"info"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// SchemeFileInfo is the content of the info column.
type SchemeFileInfo struct {
	Roaming string `json:"roaming"`
	Size    int    `json:"size"`
}
