package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"latexme/internal/llm"
	"latexme/internal/prompt"
	"latexme/internal/shared/metrics"
	"latexme/internal/shared/telemetry"
)

// Service contains the controller logic for workspaces.
type Service struct {
	Repo       Repo
	LLM        llm.Client
	Policy     prompt.ContentPolicy
	Guidelines string
	IdleTTL    time.Duration
	Now        func() time.Time

	// spawn runs background work; tests replace it to control ordering.
	spawn    func(func())
	inflight sync.WaitGroup
}

// Create starts a workspace for ownerID, pre-filled with the sample inputs.
func (s *Service) Create(ctx context.Context, ownerID string) (Workspace, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Workspace{}, ErrOwnerMissing
	}
	now := s.now()
	ws := Workspace{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		State: State{
			RawExperience:  prompt.SampleExperience(),
			JobDescription: prompt.SampleJobDescription(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, ws); err != nil {
		return Workspace{}, err
	}
	s.reportCount(ctx)
	telemetry.Info("workspace.created", map[string]any{
		"request_id":   requestIDFromContext(ctx),
		"workspace_id": ws.ID,
		"owner_id":     ownerID,
	})
	return ws, nil
}

// Get returns the current snapshot of a workspace.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Workspace, error) {
	return s.Repo.Get(ctx, ownerID, id)
}

// UpdateInputs applies a partial edit of the form fields.
func (s *Service) UpdateInputs(ctx context.Context, ownerID, id string, in Inputs) (Workspace, error) {
	now := s.now()
	return s.Repo.Update(ctx, ownerID, id, func(ws *Workspace) {
		ws.State.SetInputs(in)
		ws.UpdatedAt = now
	})
}

// RequestDocumentGeneration applies in, validates the inputs and, when both
// are present, starts an asynchronous generation call. The returned
// snapshot shows the pending state. A *ValidationError means no call was made;
// the snapshot still carries the corrective message.
func (s *Service) RequestDocumentGeneration(ctx context.Context, ownerID, id string, in Inputs) (Workspace, error) {
	now := s.now()
	var (
		seq         uint64
		validateErr error
		input       prompt.Input
	)
	ws, err := s.Repo.Update(ctx, ownerID, id, func(w *Workspace) {
		w.State.SetInputs(in)
		w.UpdatedAt = now
		seq, validateErr = w.State.BeginGeneration()
		input = prompt.Input{
			RawExperience:  w.State.RawExperience,
			JobDescription: w.State.JobDescription,
			Guidelines:     s.Guidelines,
			Policy:         s.Policy,
		}
	})
	if err != nil {
		return Workspace{}, err
	}
	if validateErr != nil {
		metrics.Inc(metrics.UseCaseDocument, metrics.OutcomeRejected)
		return ws, validateErr
	}
	metrics.Inc(metrics.UseCaseDocument, metrics.OutcomeRequested)

	text, err := prompt.Compose(prompt.KindResume, input)
	bg := backgroundWithRequestID(ctx)
	if err != nil {
		s.finishDocument(bg, ownerID, id, seq, "", fmt.Errorf("compose resume prompt: %w", err))
		return s.Repo.Get(ctx, ownerID, id)
	}
	s.async(func() {
		out, genErr := s.generate(bg, text, llm.VariantDocument)
		s.finishDocument(bg, ownerID, id, seq, out, genErr)
	})
	return ws, nil
}

// RequestAnswer applies in and, unless the question is blank, starts an
// asynchronous answer call. A blank question starts nothing, sets no pending
// flag and reports started=false.
func (s *Service) RequestAnswer(ctx context.Context, ownerID, id string, in Inputs) (ws Workspace, started bool, err error) {
	now := s.now()
	var (
		seq   uint64
		input prompt.Input
	)
	ws, err = s.Repo.Update(ctx, ownerID, id, func(w *Workspace) {
		w.State.SetInputs(in)
		w.UpdatedAt = now
		seq, started = w.State.BeginAnswer()
		input = prompt.Input{
			RawExperience:  w.State.RawExperience,
			JobDescription: w.State.JobDescription,
			Question:       w.State.Question,
		}
	})
	if err != nil || !started {
		return ws, false, err
	}
	metrics.Inc(metrics.UseCaseAnswer, metrics.OutcomeRequested)

	text, err := prompt.Compose(prompt.KindAnswer, input)
	bg := backgroundWithRequestID(ctx)
	if err != nil {
		s.finishAnswer(bg, ownerID, id, seq, "", fmt.Errorf("compose answer prompt: %w", err))
		ws, err = s.Repo.Get(ctx, ownerID, id)
		return ws, true, err
	}
	s.async(func() {
		out, genErr := s.generate(bg, text, llm.VariantAnswer)
		s.finishAnswer(bg, ownerID, id, seq, out, genErr)
	})
	return ws, true, nil
}

func (s *Service) generate(ctx context.Context, text string, variant llm.Variant) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("panic: %v", r)
		}
	}()
	return s.LLM.Generate(ctx, text, variant)
}

func (s *Service) finishDocument(ctx context.Context, ownerID, id string, seq uint64, doc string, genErr error) {
	s.finish(ctx, metrics.UseCaseDocument, ownerID, id, seq, genErr, func(st *State) bool {
		if genErr != nil {
			return st.RejectGeneration(seq)
		}
		return st.ResolveGeneration(seq, doc)
	})
}

func (s *Service) finishAnswer(ctx context.Context, ownerID, id string, seq uint64, answer string, genErr error) {
	s.finish(ctx, metrics.UseCaseAnswer, ownerID, id, seq, genErr, func(st *State) bool {
		if genErr != nil {
			return st.RejectAnswer(seq)
		}
		return st.ResolveAnswer(seq, answer)
	})
}

func (s *Service) finish(ctx context.Context, useCase, ownerID, id string, seq uint64, genErr error, apply func(*State) bool) {
	fields := map[string]any{
		"request_id":   requestIDFromContext(ctx),
		"workspace_id": id,
		"use_case":     useCase,
		"seq":          seq,
	}
	if genErr != nil {
		fields["err"] = genErr.Error()
	}

	now := s.now()
	applied := false
	_, err := s.Repo.Update(ctx, ownerID, id, func(ws *Workspace) {
		applied = apply(&ws.State)
		if applied {
			ws.UpdatedAt = now
		}
	})
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.Inc(useCase, metrics.OutcomeDiscarded)
		telemetry.Info("workspace.result_discarded", withReason(fields, "workspace_gone"))
	case err != nil:
		metrics.Inc(useCase, metrics.OutcomeFailed)
		fields["update_err"] = err.Error()
		telemetry.Error("workspace.update_failed", fields)
	case !applied:
		metrics.Inc(useCase, metrics.OutcomeDiscarded)
		telemetry.Info("workspace.result_discarded", withReason(fields, "stale"))
	case genErr != nil:
		metrics.Inc(useCase, metrics.OutcomeFailed)
		telemetry.Error("workspace.generation_failed", fields)
	default:
		metrics.Inc(useCase, metrics.OutcomeCompleted)
		telemetry.Info("workspace.generation_complete", fields)
	}
}

func withReason(fields map[string]any, reason string) map[string]any {
	fields["reason"] = reason
	return fields
}

// Delete discards a workspace. Calls still in flight for it are dropped when
// they return.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.Repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.reportCount(ctx)
	return nil
}

// Sweep removes workspaces idle for longer than IdleTTL.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	if s.IdleTTL <= 0 {
		return 0, nil
	}
	removed, err := s.Repo.DeleteIdle(ctx, s.now().Add(-s.IdleTTL))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		telemetry.Info("workspace.swept", map[string]any{"removed": removed})
	}
	s.reportCount(ctx)
	return removed, nil
}

// StartSweeper runs Sweep every interval until ctx is done.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.IdleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
					telemetry.Error("workspace.sweep_failed", map[string]any{"err": err.Error()})
				}
			}
		}
	}()
}

// Count returns the number of live workspaces.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.Repo.Count(ctx)
}

// Wait blocks until every in-flight generation call has finished.
func (s *Service) Wait() {
	s.inflight.Wait()
}

func (s *Service) async(fn func()) {
	s.inflight.Add(1)
	run := func() {
		defer s.inflight.Done()
		fn()
	}
	if s.spawn != nil {
		s.spawn(run)
		return
	}
	go run()
}

func (s *Service) reportCount(ctx context.Context) {
	if n, err := s.Repo.Count(ctx); err == nil {
		metrics.SetWorkspaces(n)
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
