package workspace

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores workspaces in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Workspace
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID: make(map[string]Workspace),
	}
}

// Create stores the workspace.
func (r *MemoryRepo) Create(ctx context.Context, ws Workspace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[ws.ID] = ws
	return nil
}

// Get returns a workspace owned by ownerID.
func (r *MemoryRepo) Get(ctx context.Context, ownerID, id string) (Workspace, error) {
	if err := ctx.Err(); err != nil {
		return Workspace{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ws, ok := r.byID[id]
	if !ok || ws.OwnerID != ownerID {
		return Workspace{}, ErrNotFound
	}
	return ws, nil
}

// Update applies fn to a copy of the workspace and stores the result.
func (r *MemoryRepo) Update(ctx context.Context, ownerID, id string, fn func(*Workspace)) (Workspace, error) {
	if err := ctx.Err(); err != nil {
		return Workspace{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.byID[id]
	if !ok || ws.OwnerID != ownerID {
		return Workspace{}, ErrNotFound
	}
	fn(&ws)
	r.byID[id] = ws
	return ws, nil
}

// Delete removes a workspace owned by ownerID.
func (r *MemoryRepo) Delete(ctx context.Context, ownerID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.byID[id]
	if !ok || ws.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// DeleteIdle removes workspaces not updated since before. Workspaces with a
// request in flight are kept.
func (r *MemoryRepo) DeleteIdle(ctx context.Context, before time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, ws := range r.byID {
		if ws.State.GeneratingDocument || ws.State.Answering {
			continue
		}
		if ws.UpdatedAt.Before(before) {
			delete(r.byID, id)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of stored workspaces.
func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

var _ Repo = (*MemoryRepo)(nil)
