// Description: This file contains the context package which is used to set and retrieve data from the context.
package common

import (
	"context"

	"github.com/google/uuid"
	"github.com/mugiliam/hatchschemesrv/internal/types"
)

// ctxProjectIdKeyType represents the key type for the project ID in the context.
type ctxProjectIdKeyType string

const ctxProjectIdKey ctxProjectIdKeyType = "HatchSchemesProjectId"

// ctxCycleIdKeyType represents the key type for the save/load cycle ID in the context.
type ctxCycleIdKeyType string

const ctxCycleIdKey ctxCycleIdKeyType = "HatchSchemesCycleId"

// SetProjectIdInContext sets the project ID in the provided context.
func SetProjectIdInContext(ctx context.Context, projectId types.ProjectId) context.Context {
	return context.WithValue(ctx, ctxProjectIdKey, projectId)
}

// ProjectIdFromContext retrieves the project ID from the provided context.
// Contexts without a project resolve to the application scope.
func ProjectIdFromContext(ctx context.Context) types.ProjectId {
	if projectId, ok := ctx.Value(ctxProjectIdKey).(types.ProjectId); ok && projectId != "" {
		return projectId
	}
	return types.ApplicationScope
}

// SetCycleIdInContext tags the context with a fresh cycle ID, unless one is already present.
func SetCycleIdInContext(ctx context.Context) context.Context {
	if CycleIdFromContext(ctx) != uuid.Nil {
		return ctx
	}
	return context.WithValue(ctx, ctxCycleIdKey, uuid.New())
}

// CycleIdFromContext retrieves the cycle ID from the provided context.
func CycleIdFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(ctxCycleIdKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
