package workspace

import "time"

// Workspace is the server-side state of one open form.
type Workspace struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
