package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/tartampluch/go-agewidget/internal/engine"
	"github.com/tartampluch/go-agewidget/internal/settings"
)

// pipeline turns the current settings into a board and a calendar feed.
type pipeline struct {
	store    *settings.Store
	clock    engine.Clock
	importer *engine.Importer
}

func newPipeline(store *settings.Store, clock engine.Clock) *pipeline {
	return &pipeline{
		store:    store,
		clock:    clock,
		importer: &engine.Importer{Fetcher: engine.NewHTTPFetcher()},
	}
}

// entities returns the configured entities followed by imported contacts.
func (p *pipeline) entities(ctx context.Context, s settings.Settings) ([]engine.Entity, error) {
	entities := s.Entities()
	if !s.ContactsEnabled() {
		return entities, nil
	}

	people, err := p.importer.Import(ctx, s.Contacts)
	if err != nil {
		return entities, err
	}
	for _, person := range people {
		entities = append(entities, person)
	}
	return entities, nil
}

// board renders the board for today. A contacts failure still yields the
// board of the configured entities, along with the error.
func (p *pipeline) board(ctx context.Context, today engine.CalendarDate) (engine.Board, []engine.Entity, error) {
	start := time.Now()
	s := p.store.Current()

	entities, err := p.entities(ctx, s)
	board := engine.Render(entities, today, s.Options, s.Layout)

	slog.Debug(config.MsgRenderDone,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyDate, board.Date,
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return board, entities, err
}

// calendar builds the anniversary feed of the given entities.
func (p *pipeline) calendar(ctx context.Context, entities []engine.Entity) ([]byte, error) {
	s := p.store.Current()
	feed := &engine.Feed{Clock: p.clock, ReminderTrigger: s.Reminder}
	data, _, err := feed.Build(ctx, entities, s.Options)
	return data, err
}

// writeBoard prints the board as JSON or as text.
func writeBoard(w io.Writer, board engine.Board, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(board); err != nil {
			return fmt.Errorf("%s: %w", config.ErrBoardEncode, err)
		}
		return nil
	}
	_, err := io.WriteString(w, formatText(board))
	return err
}

// formatText renders the board the way the widget shows it: an optional
// title, then "name<separator>text" per row, highlighted rows marked.
func formatText(board engine.Board) string {
	var b strings.Builder

	if board.Layout.ShowTitle && board.Layout.Title != "" {
		b.WriteString(board.Layout.Title)
		b.WriteByte('\n')
	}

	if len(board.Rows) == 0 {
		b.WriteString(board.Empty)
		b.WriteByte('\n')
		return b.String()
	}

	lines := make([]string, 0, len(board.Rows))
	for _, r := range board.Rows {
		line := r.Name + board.Separator + r.DisplayText
		if r.Highlight {
			line = config.HighlightMarker + line
		}
		lines = append(lines, line)
	}

	if board.Layout.Inline {
		b.WriteString(strings.Join(lines, config.InlineRowSeparator))
		b.WriteByte('\n')
		return b.String()
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}
