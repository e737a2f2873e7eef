package save

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/messages"
	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/styles"
	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
)

// MockSessionService implements driving.SessionService for testing.
type MockSessionService struct {
	StartFunc            func(ctx context.Context) (*domain.Session, error)
	SessionFunc          func() (*domain.Session, error)
	ToggleFunc           func(level domain.Level, selector string) (bool, error)
	ResetExclusionsFunc  func() error
	PreviewFunc          func(ctx context.Context) (domain.Impact, error)
	SelectionNodesFunc   func(ctx context.Context, level domain.Level) ([]driving.SelectionNode, error)
	CalculateFunc        func(ctx context.Context, name string) (*domain.IndexResult, error)
	ContinueOrFinishFunc func(clearExclusions, wantMore bool) error
	CommitFunc           func(ctx context.Context, choice domain.CommitChoice) (string, error)
}

func (m *MockSessionService) Start(ctx context.Context) (*domain.Session, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx)
	}
	return &domain.Session{State: domain.SessionEditing}, nil
}

func (m *MockSessionService) Session() (*domain.Session, error) {
	if m.SessionFunc != nil {
		return m.SessionFunc()
	}
	return &domain.Session{State: domain.SessionEditing}, nil
}

func (m *MockSessionService) Toggle(level domain.Level, selector string) (bool, error) {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(level, selector)
	}
	return true, nil
}

func (m *MockSessionService) ResetExclusions() error {
	if m.ResetExclusionsFunc != nil {
		return m.ResetExclusionsFunc()
	}
	return nil
}

func (m *MockSessionService) Preview(ctx context.Context) (domain.Impact, error) {
	if m.PreviewFunc != nil {
		return m.PreviewFunc(ctx)
	}
	return domain.Impact{}, nil
}

func (m *MockSessionService) SelectionNodes(
	ctx context.Context,
	level domain.Level,
) ([]driving.SelectionNode, error) {
	if m.SelectionNodesFunc != nil {
		return m.SelectionNodesFunc(ctx, level)
	}
	return nil, nil
}

func (m *MockSessionService) Calculate(ctx context.Context, name string) (*domain.IndexResult, error) {
	if m.CalculateFunc != nil {
		return m.CalculateFunc(ctx, name)
	}
	return &domain.IndexResult{Name: name}, nil
}

func (m *MockSessionService) ContinueOrFinish(clearExclusions, wantMore bool) error {
	if m.ContinueOrFinishFunc != nil {
		return m.ContinueOrFinishFunc(clearExclusions, wantMore)
	}
	return nil
}

func (m *MockSessionService) Commit(ctx context.Context, choice domain.CommitChoice) (string, error) {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx, choice)
	}
	return "", nil
}

func finishedSession() *domain.Session {
	return &domain.Session{
		ID:    "s1",
		State: domain.SessionFinished,
		Results: []domain.IndexResult{
			{
				Name: "CPI ex Food",
				Series: []domain.GroupSeries{
					{
						Group: domain.DefaultGroupKey,
						Points: []domain.IndexPoint{
							{Period: domain.Period{Year: 2024, Month: time.January}, Index: 109.58},
							{Period: domain.Period{Year: 2024, Month: time.February}, Index: 111.58},
						},
					},
				},
			},
		},
	}
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()
	mock := &MockSessionService{}

	view := NewView(s, nil, mock)

	require.NotNil(t, view)
	assert.Equal(t, 0, view.Selected())
	assert.Equal(t, domain.CommitAppend, view.Choice())
	assert.Empty(t, view.Outcome())
	assert.False(t, view.Committing())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
}

func TestView_WithContext(t *testing.T) {
	view := NewView(nil, nil, &MockSessionService{})
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	result := view.WithContext(ctx)

	assert.Equal(t, view, result)
	assert.Equal(t, ctx, view.ctx)
}

func TestView_Init(t *testing.T) {
	view := NewView(nil, nil, &MockSessionService{})

	assert.Nil(t, view.Init())
}

func TestView_Navigation(t *testing.T) {
	view := NewView(nil, nil, &MockSessionService{})

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, domain.CommitStandalone, view.Choice())

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, domain.CommitDiscard, view.Choice())

	// Boundary
	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, domain.CommitDiscard, view.Choice())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, domain.CommitStandalone, view.Choice())

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, domain.CommitAppend, view.Choice())
}

func TestView_Enter_Commits(t *testing.T) {
	var gotChoice domain.CommitChoice
	mock := &MockSessionService{
		CommitFunc: func(ctx context.Context, choice domain.CommitChoice) (string, error) {
			gotChoice = choice
			return "Appended 2 rows to the main dataset", nil
		},
	}
	view := NewView(nil, nil, mock)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, view.Committing())
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(messages.CommitDone)
	require.True(t, ok)
	assert.NoError(t, done.Err)
	assert.Equal(t, domain.CommitAppend, gotChoice)
	assert.Equal(t, "Appended 2 rows to the main dataset", done.Outcome)
}

func TestView_NumberShortcuts(t *testing.T) {
	var gotChoice domain.CommitChoice
	mock := &MockSessionService{
		CommitFunc: func(ctx context.Context, choice domain.CommitChoice) (string, error) {
			gotChoice = choice
			return "ok", nil
		},
	}
	view := NewView(nil, nil, mock)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})

	assert.Equal(t, 2, view.Selected())
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, domain.CommitDiscard, gotChoice)
}

func TestView_Update_CommitDone(t *testing.T) {
	view := NewView(nil, nil, &MockSessionService{})
	view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, view.Committing())

	view.Update(messages.CommitDone{Outcome: "Saved 2 rows to custom_cpi_batch_20240315_100400"})

	assert.False(t, view.Committing())
	assert.Equal(t, "Saved 2 rows to custom_cpi_batch_20240315_100400", view.Outcome())
	assert.NoError(t, view.Err())
}

func TestView_Update_CommitDone_Error(t *testing.T) {
	view := NewView(nil, nil, &MockSessionService{})
	view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view.Update(messages.CommitDone{Err: domain.ErrInvalidState})

	assert.False(t, view.Committing())
	assert.Empty(t, view.Outcome())
	assert.ErrorIs(t, view.Err(), domain.ErrInvalidState)
}

func TestView_AnyKeyQuitsAfterCommit(t *testing.T) {
	view := NewView(nil, nil, &MockSessionService{})
	view.Update(messages.CommitDone{Outcome: "Discarded 2 result rows"})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	require.NotNil(t, cmd)
}

func TestView_KeysIgnoredWhileCommitting(t *testing.T) {
	view := NewView(nil, nil, &MockSessionService{})
	view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, view.Committing())

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_Commit_NoService(t *testing.T) {
	view := NewView(nil, nil, nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(messages.CommitDone)
	require.True(t, ok)
	assert.ErrorIs(t, done.Err, ErrNoSessionService)
}

func TestView_View_NotReady(t *testing.T) {
	view := NewView(nil, nil, &MockSessionService{})

	output := view.View()

	assert.Contains(t, output, "Initialising")
}

func TestView_View_RendersChoices(t *testing.T) {
	mock := &MockSessionService{
		SessionFunc: func() (*domain.Session, error) {
			return finishedSession(), nil
		},
	}
	view := NewView(nil, nil, mock)
	view.SetDimensions(80, 24)

	output := view.View()

	assert.Contains(t, output, "Save Your Indices")
	assert.Contains(t, output, "2 result rows from 1 indices")
	assert.Contains(t, output, "1. Append to the main dataset")
	assert.Contains(t, output, "2. Save as a standalone file")
	assert.Contains(t, output, "3. Discard without saving")
	assert.Contains(t, output, ">")
}

func TestView_View_Committing(t *testing.T) {
	view := NewView(nil, nil, &MockSessionService{})
	view.SetDimensions(80, 24)
	view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	output := view.View()

	assert.Contains(t, output, "Saving...")
}

func TestView_View_Outcome(t *testing.T) {
	view := NewView(nil, nil, &MockSessionService{})
	view.SetDimensions(80, 24)
	view.Update(messages.CommitDone{Outcome: "Appended 2 rows to the main dataset"})

	output := view.View()

	assert.Contains(t, output, "Appended 2 rows to the main dataset")
	assert.Contains(t, output, "Press any key to exit")
	assert.NotContains(t, output, "1. Append")
}

func TestView_View_Error(t *testing.T) {
	view := NewView(nil, nil, &MockSessionService{})
	view.SetDimensions(80, 24)
	view.Update(messages.CommitDone{Err: domain.ErrInvalidState})

	output := view.View()

	assert.Contains(t, output, "Error:")
}

func TestView_Reset(t *testing.T) {
	view := NewView(nil, nil, &MockSessionService{})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	view.Update(messages.CommitDone{Outcome: "done"})

	view.Reset()

	assert.Equal(t, 0, view.Selected())
	assert.Empty(t, view.Outcome())
	assert.False(t, view.Committing())
	assert.NoError(t, view.Err())
}
