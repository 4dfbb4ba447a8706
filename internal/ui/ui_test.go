package ui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vowfolio/internal/gesture"
	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/desertthunder/vowfolio/internal/store"
	"github.com/desertthunder/vowfolio/internal/tasks"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type harness struct {
	model *Model
	store *store.Store
	clock *clock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := shared.NewLogger(io.Discard)
	s, err := store.NewWithDataset(logger, store.MockDataset())
	if err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	adapter, err := tasks.NewSyncAdapter(tasks.SyncOpts{Store: s, Logger: logger})
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	c := &clock{t: time.Date(2024, 11, 22, 18, 0, 0, 0, time.UTC)}
	m := NewModel(context.Background(), adapter, Options{ArmDelay: gesture.DefaultArmDelay, Now: c.now})
	return &harness{model: m, store: s, clock: c}
}

func (h *harness) send(msgs ...tea.Msg) {
	for _, msg := range msgs {
		h.model.Update(msg)
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "shift+up":
		return tea.KeyMsg{Type: tea.KeyShiftUp}
	case "shift+down":
		return tea.KeyMsg{Type: tea.KeyShiftDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func mouse(action tea.MouseAction, row int) tea.MouseMsg {
	return tea.MouseMsg{X: 4, Y: listTop + row, Action: action, Button: tea.MouseButtonLeft}
}

func rowIDs(m *Model) string {
	ids := make([]string, len(m.rows))
	for i, r := range m.rows {
		ids[i] = r.id
	}
	return strings.Join(ids, ",")
}

func categoryOrder(s *store.Store) string {
	var ids []string
	for _, c := range s.Categories() {
		ids = append(ids, c.ID)
	}
	return strings.Join(ids, ",")
}

func TestView(t *testing.T) {
	h := newHarness(t)
	lines := strings.Split(h.model.View(), "\n")

	if !strings.Contains(lines[0], "Gallery") || !strings.Contains(lines[0], "offline") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[listTop], "Wedding") {
		t.Errorf("expected first row on line %d, got %q", listTop, lines[listTop])
	}
	if !strings.Contains(lines[listTop+4], "Portraits") || !strings.Contains(lines[listTop+4], "0 albums") {
		t.Errorf("expected last category row, got %q", lines[listTop+4])
	}
}

func TestDragReorder(t *testing.T) {
	t.Run("Drag Moves Category", func(t *testing.T) {
		h := newHarness(t)

		h.send(mouse(tea.MouseActionPress, 2))
		h.clock.advance(gesture.DefaultArmDelay)
		h.send(mouse(tea.MouseActionMotion, 0))

		if got := categoryOrder(h.store); got != "3,1,2,4,5" {
			t.Errorf("expected 3,1,2,4,5, got %s", got)
		}
		if rowIDs(h.model) != "3,1,2,4,5" || h.model.cursor != 0 {
			t.Errorf("expected rows to follow the store, got %s cursor %d", rowIDs(h.model), h.model.cursor)
		}
		if !strings.Contains(h.model.View(), "≡") {
			t.Error("expected dragged row marker while the button is held")
		}

		h.send(mouse(tea.MouseActionMotion, 0), mouse(tea.MouseActionRelease, 0))
		if got := categoryOrder(h.store); got != "3,1,2,4,5" {
			t.Errorf("expected repeated samples to be ignored, got %s", got)
		}
		if _, dragging := h.model.tracker.Dragging(); dragging {
			t.Error("expected release to end the drag")
		}
	})

	t.Run("Before Arm Delay", func(t *testing.T) {
		h := newHarness(t)

		h.send(mouse(tea.MouseActionPress, 1))
		h.clock.advance(10 * time.Millisecond)
		h.send(mouse(tea.MouseActionMotion, 4))

		if got := categoryOrder(h.store); got != "1,2,3,4,5" {
			t.Errorf("expected no move before the drag arms, got %s", got)
		}
	})

	t.Run("Drag Through Several Rows", func(t *testing.T) {
		h := newHarness(t)

		h.send(mouse(tea.MouseActionPress, 1))
		h.clock.advance(time.Second)
		for row := 2; row <= 4; row++ {
			h.send(mouse(tea.MouseActionMotion, row))
		}
		h.send(mouse(tea.MouseActionRelease, 4))

		if got := categoryOrder(h.store); got != "1,3,4,5,2" {
			t.Errorf("expected 1,3,4,5,2, got %s", got)
		}
	})

	t.Run("Motion Outside List", func(t *testing.T) {
		h := newHarness(t)

		h.send(mouse(tea.MouseActionPress, 0))
		h.clock.advance(time.Second)
		h.send(tea.MouseMsg{X: 4, Y: 0, Action: tea.MouseActionMotion})

		if got := categoryOrder(h.store); got != "1,2,3,4,5" {
			t.Errorf("expected header motion to be ignored, got %s", got)
		}
	})
}

func TestKeyboardReorder(t *testing.T) {
	t.Run("Shift Up", func(t *testing.T) {
		h := newHarness(t)
		h.send(keyMsg("down"), keyMsg("shift+up"))

		if got := categoryOrder(h.store); got != "2,1,3,4,5" {
			t.Errorf("expected 2,1,3,4,5, got %s", got)
		}
		if h.model.cursor != 0 {
			t.Errorf("expected cursor to follow the item, got %d", h.model.cursor)
		}
	})

	t.Run("Top Of List", func(t *testing.T) {
		h := newHarness(t)
		h.send(keyMsg("shift+up"))

		if got := categoryOrder(h.store); got != "1,2,3,4,5" {
			t.Errorf("expected no change, got %s", got)
		}
		if len(h.model.status) != 1 || h.model.status[0].Level != tasks.LevelError {
			t.Fatalf("expected one error notice, got %+v", h.model.status)
		}
		if !strings.Contains(h.model.View(), "Cannot move category there") {
			t.Error("expected status line to explain the rejected move")
		}
	})
}

func TestNavigation(t *testing.T) {
	t.Run("Drill Down And Back", func(t *testing.T) {
		h := newHarness(t)

		h.send(keyMsg("enter"))
		if h.model.view != AlbumView || rowIDs(h.model) != "1,2" {
			t.Fatalf("expected albums of category 1, got view %d rows %s", h.model.view, rowIDs(h.model))
		}

		h.send(keyMsg("down"), keyMsg("enter"))
		if h.model.view != ImageView || rowIDs(h.model) != "3" {
			t.Fatalf("expected images of album 2, got view %d rows %s", h.model.view, rowIDs(h.model))
		}
		if !strings.Contains(h.model.View(), "Categories › Wedding › Wedding Reception") {
			t.Error("expected breadcrumb to name category and album")
		}

		h.send(keyMsg("esc"))
		if h.model.view != AlbumView || h.model.cursor != 1 {
			t.Errorf("expected album view with cursor on album 2, got view %d cursor %d", h.model.view, h.model.cursor)
		}
		h.send(keyMsg("esc"))
		if h.model.view != CategoryView || h.model.cursor != 0 {
			t.Errorf("expected category view, got view %d cursor %d", h.model.view, h.model.cursor)
		}
	})

	t.Run("Album Drag Stays In Category", func(t *testing.T) {
		h := newHarness(t)
		h.send(keyMsg("enter"), keyMsg("shift+down"))

		got := h.store.AlbumsByCategory("1")
		if len(got) != 2 || got[0].ID != "2" || got[1].ID != "1" {
			t.Errorf("unexpected albums %+v", got)
		}
	})

	t.Run("Hero Pages", func(t *testing.T) {
		h := newHarness(t)
		if _, err := h.store.AddHeroImage(models.HeroImage{URL: "https://x/about.jpg", Alt: "About", Page: "about"}); err != nil {
			t.Fatalf("failed to add hero image: %v", err)
		}

		h.send(keyMsg("tab"))
		if h.model.view != HeroView || h.model.page != "home" || rowIDs(h.model) != "1,2,3" {
			t.Fatalf("expected home hero images, got view %d page %s rows %s", h.model.view, h.model.page, rowIDs(h.model))
		}

		h.send(keyMsg("shift+down"))
		if got := h.store.HeroImages("home"); got[0].ID != "2" || got[1].ID != "1" {
			t.Errorf("expected hero 1 to move down, got %+v", got)
		}

		h.send(keyMsg("right"))
		if h.model.page != "about" || len(h.model.rows) != 1 || h.model.rows[0].title != "About" {
			t.Errorf("expected about page, got %s %+v", h.model.page, h.model.rows)
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("Confirmed", func(t *testing.T) {
		h := newHarness(t)
		h.send(keyMsg("d"))

		if !h.model.confirm || !strings.Contains(h.model.View(), `Delete category "Wedding"?`) {
			t.Fatal("expected a confirmation prompt")
		}

		h.send(keyMsg("y"))
		if got := categoryOrder(h.store); got != "2,3,4,5" {
			t.Errorf("expected category 1 deleted, got %s", got)
		}
		if _, err := h.store.Album("1"); err == nil {
			t.Error("expected cascade to remove album 1")
		}
		if rowIDs(h.model) != "2,3,4,5" {
			t.Errorf("expected rows to follow the store, got %s", rowIDs(h.model))
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		h := newHarness(t)
		h.send(keyMsg("d"), keyMsg("n"))

		if h.model.confirm || categoryOrder(h.store) != "1,2,3,4,5" {
			t.Errorf("expected nothing deleted, got %s", categoryOrder(h.store))
		}
	})
}

func TestMessages(t *testing.T) {
	t.Run("Notices Are Capped", func(t *testing.T) {
		h := newHarness(t)
		for i := 0; i < 5; i++ {
			h.send(noticeMsg(tasks.Notice{Level: tasks.LevelSuccess, Message: "Category reordered"}))
		}
		h.send(noticeMsg(tasks.Notice{Level: tasks.LevelError, Message: "Failed to reorder category"}))

		if len(h.model.status) != maxNotices {
			t.Errorf("expected %d notices, got %d", maxNotices, len(h.model.status))
		}
		if last := h.model.status[maxNotices-1]; last.Level != tasks.LevelError {
			t.Errorf("expected newest notice last, got %+v", last)
		}
	})

	t.Run("Notice Re-Renders Rows", func(t *testing.T) {
		h := newHarness(t)
		if _, err := h.store.ReorderCategory("5", 1); err != nil {
			t.Fatalf("reorder failed: %v", err)
		}

		h.send(noticeMsg(tasks.Notice{Level: tasks.LevelInfo, Message: "Reloaded category list from server"}))
		if got := rowIDs(h.model); got != "5,1,2,3,4" {
			t.Errorf("expected rows to pick up the refetch, got %s", got)
		}
	})

	t.Run("Refreshed", func(t *testing.T) {
		h := newHarness(t)
		h.model.loading = true

		h.send(refreshedMsg(shared.ErrServiceUnavailable))
		if h.model.loading || !strings.Contains(h.model.View(), "Refresh failed") {
			t.Error("expected refresh error in the view")
		}

		h.send(refreshedMsg(nil))
		if h.model.err != nil {
			t.Errorf("expected error to clear, got %v", h.model.err)
		}
	})

	t.Run("Quit", func(t *testing.T) {
		h := newHarness(t)
		if _, cmd := h.model.Update(keyMsg("q")); cmd == nil {
			t.Error("expected quit command")
		}
	})
}
