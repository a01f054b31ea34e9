package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/jotlist/internal/app"
	"github.com/idilsaglam/jotlist/internal/model"
)

// Storage requests run as commands; their completions come back as messages.

type openedMsg struct {
	snap app.Snapshot
	err  error // listing failed after a successful open
}

type openFailedMsg struct{ err error }

type addedMsg struct {
	item model.Item
	snap app.Snapshot
}

type addFailedMsg struct{ err error }

type deletedMsg struct{ id int64 }

type deleteFailedMsg struct {
	id  int64
	err error
}

func openCmd(ctx context.Context, s *app.Session) tea.Cmd {
	return func() tea.Msg {
		if err := s.Open(ctx); err != nil {
			return openFailedMsg{err: err}
		}
		snap, err := s.Items(ctx)
		return openedMsg{snap: snap, err: err}
	}
}

func addCmd(ctx context.Context, s *app.Session, body string) tea.Cmd {
	return func() tea.Msg {
		it, snap, err := s.Add(ctx, body)
		if err != nil {
			return addFailedMsg{err: err}
		}
		return addedMsg{item: it, snap: snap}
	}
}

func deleteCmd(ctx context.Context, s *app.Session, id int64) tea.Cmd {
	return func() tea.Msg {
		if _, err := s.Delete(ctx, id); err != nil {
			return deleteFailedMsg{id: id, err: err}
		}
		return deletedMsg{id: id}
	}
}
