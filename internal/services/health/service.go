package health

import "context"

// Counter reports how many workspaces are live.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Service encapsulates health-related checks.
type Service struct {
	provider   string
	workspaces Counter
}

// Status is the health payload.
type Status struct {
	OK         bool   `json:"ok"`
	Provider   string `json:"provider"`
	Workspaces int    `json:"workspaces"`
}

// NewService constructs a new health service.
func NewService(provider string, workspaces Counter) *Service {
	return &Service{provider: provider, workspaces: workspaces}
}

// Status reports the active provider and the number of live workspaces.
// OK turns false only when the workspace store cannot be read.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Provider: s.provider}
	if s.workspaces == nil {
		return st
	}
	n, err := s.workspaces.Count(ctx)
	if err != nil {
		st.OK = false
		return st
	}
	st.Workspaces = n
	return st
}
