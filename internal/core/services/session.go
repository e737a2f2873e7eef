package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
	"github.com/pricelab/cpix-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService runs the interactive custom index workflow. It owns one
// session at a time and enforces the editing, calculated and finished
// phases. The service is driven by a single UI; nothing here locks.
type SessionService struct {
	hierarchies driving.HierarchyService
	indices     driving.IndexService
	dataset     driven.DatasetStore

	session *domain.Session
}

// NewSessionService creates a session service. dataset may be nil, in which
// case finished sessions can only discard their results.
func NewSessionService(hierarchies driving.HierarchyService, indices driving.IndexService, dataset driven.DatasetStore) *SessionService {
	return &SessionService{
		hierarchies: hierarchies,
		indices:     indices,
		dataset:     dataset,
	}
}

// Start opens a fresh session in the editing phase, replacing any previous
// one. The hierarchy is built up front so selector views have data.
func (s *SessionService) Start(ctx context.Context) (*domain.Session, error) {
	if _, err := s.hierarchies.Hierarchy(ctx); err != nil {
		return nil, err
	}

	s.session = &domain.Session{
		ID:         uuid.New().String(),
		State:      domain.SessionEditing,
		Exclusions: domain.NewExclusionSet(),
		CreatedAt:  time.Now().UTC(),
	}
	logger.Info("Session %s started", s.session.ID)
	return s.session, nil
}

// Session returns the active session.
func (s *SessionService) Session() (*domain.Session, error) {
	if s.session == nil {
		return nil, fmt.Errorf("no active session: %w", domain.ErrInvalidState)
	}
	return s.session, nil
}

// Toggle flips one selector in the working exclusion set.
func (s *SessionService) Toggle(level domain.Level, selector string) (bool, error) {
	if err := s.require(domain.SessionEditing); err != nil {
		return false, err
	}
	return s.session.Exclusions.Toggle(level, selector)
}

// ResetExclusions clears the working exclusion set.
func (s *SessionService) ResetExclusions() error {
	if err := s.require(domain.SessionEditing); err != nil {
		return err
	}
	s.session.Exclusions.Reset()
	return nil
}

// Preview reports the weight impact of the working exclusions.
func (s *SessionService) Preview(ctx context.Context) (domain.Impact, error) {
	if s.session == nil {
		return domain.Impact{}, fmt.Errorf("no active session: %w", domain.ErrInvalidState)
	}
	return s.indices.Preview(ctx, s.session.Exclusions)
}

// SelectionNodes lists a level's nodes for the toggle UI. A node is flagged
// excluded when its code or name is selected at that level.
func (s *SessionService) SelectionNodes(ctx context.Context, level domain.Level) ([]driving.SelectionNode, error) {
	if s.session == nil {
		return nil, fmt.Errorf("no active session: %w", domain.ErrInvalidState)
	}
	if !level.IsSelector() {
		return nil, fmt.Errorf("%w: %q is not a selectable level", domain.ErrInvalidInput, level)
	}
	h, err := s.hierarchies.Hierarchy(ctx)
	if err != nil {
		return nil, err
	}

	nodes := h.Nodes(level)
	out := make([]driving.SelectionNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, driving.SelectionNode{
			Node:     n,
			Excluded: s.session.Exclusions.Contains(level, n.Code) || s.session.Exclusions.Contains(level, n.Name),
		})
	}
	return out, nil
}

// Calculate builds the named index over the current selection. On success
// the result joins the session history and the phase moves to calculated.
// An EmptySelectionError leaves the session editing so the user can adjust.
func (s *SessionService) Calculate(ctx context.Context, name string) (*domain.IndexResult, error) {
	if err := s.require(domain.SessionEditing); err != nil {
		return nil, err
	}
	if name == "" {
		name = fmt.Sprintf("Custom Index (%s)", time.Now().Format("150405"))
	}

	result, err := s.indices.Calculate(ctx, name, s.session.Exclusions)
	if err != nil {
		return nil, err
	}

	s.session.Results = append(s.session.Results, *result)
	s.session.State = domain.SessionCalculated
	return result, nil
}

// ContinueOrFinish decides what happens after a calculation: optionally
// clear the exclusions, then either return to editing or finish.
func (s *SessionService) ContinueOrFinish(clearExclusions, wantMore bool) error {
	if err := s.require(domain.SessionCalculated); err != nil {
		return err
	}
	if clearExclusions {
		s.session.Exclusions.Reset()
	}
	if wantMore {
		s.session.State = domain.SessionEditing
	} else {
		s.session.State = domain.SessionFinished
		logger.Info("Session %s finished with %d results", s.session.ID, len(s.session.Results))
	}
	return nil
}

// Commit hands the finished session's rows to persistence. Returns a
// description of where the rows went.
func (s *SessionService) Commit(ctx context.Context, choice domain.CommitChoice) (string, error) {
	if err := s.require(domain.SessionFinished); err != nil {
		return "", err
	}
	if !choice.IsValid() {
		return "", fmt.Errorf("%w: unknown commit choice %q", domain.ErrInvalidInput, choice)
	}

	rows := s.session.Rows()
	if choice == domain.CommitDiscard || len(rows) == 0 {
		logger.Info("Session %s discarded %d rows", s.session.ID, len(rows))
		return fmt.Sprintf("Discarded %d result rows", len(rows)), nil
	}
	if s.dataset == nil {
		return "", domain.ErrDatasetUnavailable
	}

	switch choice {
	case domain.CommitAppend:
		if err := s.dataset.AppendRows(ctx, rows); err != nil {
			return "", fmt.Errorf("appending to dataset: %w", err)
		}
		if err := s.recordCommits(ctx); err != nil {
			return "", err
		}
		return fmt.Sprintf("Appended %d rows to the main dataset", len(rows)), nil

	case domain.CommitStandalone:
		name := fmt.Sprintf("custom_cpi_batch_%s", time.Now().Format("20060102_150405"))
		path, err := s.dataset.SaveStandalone(ctx, name, rows)
		if err != nil {
			return "", fmt.Errorf("saving standalone artifact: %w", err)
		}
		if err := s.recordCommits(ctx); err != nil {
			return "", err
		}
		return fmt.Sprintf("Saved %d rows to %s", len(rows), path), nil
	}
	return "", fmt.Errorf("%w: unknown commit choice %q", domain.ErrInvalidInput, choice)
}

func (s *SessionService) recordCommits(ctx context.Context) error {
	for i := range s.session.Results {
		r := &s.session.Results[i]
		rec := driven.CommitRecord{
			ID:             r.ID,
			Name:           r.Name,
			ItemsCount:     r.ItemsCount,
			TotalWeight:    r.TotalWeight,
			ExcludedWeight: r.ExcludedWeight,
			Rows:           r.PeriodCount(),
			CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		}
		if err := s.dataset.RecordCommit(ctx, rec); err != nil {
			return fmt.Errorf("recording commit for %q: %w", r.Name, err)
		}
	}
	return nil
}

// require checks the session phase before a transition.
func (s *SessionService) require(state domain.SessionState) error {
	if s.session == nil {
		return fmt.Errorf("no active session: %w", domain.ErrInvalidState)
	}
	if s.session.State != state {
		return fmt.Errorf("session is %s, not %s: %w", s.session.State, state, domain.ErrInvalidState)
	}
	return nil
}
