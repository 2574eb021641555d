package workspace

import (
	"context"
	"time"
)

// Repo defines storage operations for workspaces. Update runs fn under the
// repository lock, so transitions on one workspace never interleave.
type Repo interface {
	Create(ctx context.Context, ws Workspace) error
	Get(ctx context.Context, ownerID, id string) (Workspace, error)
	Update(ctx context.Context, ownerID, id string, fn func(*Workspace)) (Workspace, error)
	Delete(ctx context.Context, ownerID, id string) error
	DeleteIdle(ctx context.Context, before time.Time) (int, error)
	Count(ctx context.Context) (int, error)
}
