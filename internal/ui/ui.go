package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vowfolio/internal/gesture"
	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/desertthunder/vowfolio/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CategoryView ViewState = iota
	AlbumView
	ImageView
	HeroView
)

func (v ViewState) kind() models.Kind {
	switch v {
	case HeroView:
		return models.KindHeroImage
	case AlbumView:
		return models.KindAlbum
	case ImageView:
		return models.KindImage
	default:
		return models.KindCategory
	}
}

// listTop is the screen line of the first row: header, breadcrumb and a blank line come first.
const listTop = 3

const (
	defaultWidth = 80
	maxNotices   = 3
	defaultPage  = "home"
)

// row is one rendered list line.
type row struct {
	id     string
	title  string
	detail string
}

// Options configures a [Model].
type Options struct {
	ArmDelay time.Duration
	Notices  <-chan tasks.Notice
	// Now is the clock used for drag arming. Defaults to [time.Now].
	Now func() time.Time
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	adapter *tasks.SyncAdapter
	notices <-chan tasks.Notice
	tracker *gesture.Tracker
	now     func() time.Time

	view       ViewState
	page       string
	categoryID string
	albumID    string
	rows       []row
	cursor     int
	confirm    bool

	status  []tasks.Notice
	loading bool
	err     error
	width   int
	height  int
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model over adapter.
func NewModel(ctx context.Context, adapter *tasks.SyncAdapter, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := &Model{
		ctx:     ctx,
		adapter: adapter,
		notices: opts.Notices,
		tracker: gesture.NewTracker(opts.ArmDelay),
		now:     opts.Now,
		view:    CategoryView,
		page:    defaultPage,
		width:   defaultWidth,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.refreshRows()
	return m
}

// Init refreshes from the API and starts listening for notices.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.refresh(), m.waitForNotice())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.confirm {
			return m.handleConfirmKeys(msg)
		}
		return m.handleKeys(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case Msg:
		switch msg.kind {
		case MsgRefreshed:
			m.loading = false
			m.err, _ = msg.data.(error)
			m.refreshRows()
			return m, nil
		case MsgNotice:
			n, _ := msg.data.(tasks.Notice)
			m.pushNotice(n)
			m.refreshRows()
			return m, m.waitForNotice()
		case MsgNoticesClosed:
			m.notices = nil
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.moveUp):
		m.moveSelected(-1)
	case key.Matches(msg, m.keys.moveDown):
		m.moveSelected(1)
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.enter):
		m.open()
	case key.Matches(msg, m.keys.back):
		m.back()
	case key.Matches(msg, m.keys.tab):
		if m.view == HeroView {
			m.setView(CategoryView, 0)
		} else {
			m.setView(HeroView, 0)
		}
	case key.Matches(msg, m.keys.prevPage):
		m.cyclePage(-1)
	case key.Matches(msg, m.keys.nextPage):
		m.cyclePage(1)
	case key.Matches(msg, m.keys.del):
		if len(m.rows) > 0 {
			m.confirm = true
		}
	case key.Matches(msg, m.keys.refresh):
		m.loading = true
		return m, m.refresh()
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.confirm = false
		m.deleteSelected()
	case key.Matches(msg, m.keys.no):
		m.confirm = false
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// handleMouse feeds left button drags to the gesture tracker.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := gesture.Point{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if i, ok := gesture.DetectOverlap(p, m.rects()); ok {
			m.cursor = i
			m.tracker.Start(m.rows[i].id, i, m.now())
		}
	case tea.MouseActionMotion:
		if intent, ok := m.tracker.Move(p, m.rects(), m.now()); ok {
			m.move(intent.ID, intent.Position)
		}
	case tea.MouseActionRelease:
		m.tracker.End()
	}
	return m, nil
}

// rects lays out one box per row, each a single full-width line.
func (m *Model) rects() []gesture.Rect {
	out := make([]gesture.Rect, len(m.rows))
	for i := range m.rows {
		out[i] = gesture.Rect{X: 0, Y: listTop + i, W: m.width, H: 1}
	}
	return out
}

func (m *Model) moveSelected(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.move(m.rows[m.cursor].id, m.cursor+1+delta)
}

// move applies one reorder. A rejected move leaves the list as it was and shows why.
func (m *Model) move(id string, position int) {
	var err error
	switch m.view {
	case HeroView:
		_, err = m.adapter.MoveHeroImage(id, position)
	case CategoryView:
		_, err = m.adapter.MoveCategory(id, position)
	case AlbumView:
		_, err = m.adapter.MoveAlbum(id, position)
	case ImageView:
		_, err = m.adapter.MoveImage(id, position)
	}
	if err != nil {
		m.pushNotice(localNotice(tasks.OpReorder, m.view.kind(), id, err))
		return
	}

	m.refreshRows()
	for i, r := range m.rows {
		if r.id == id {
			m.cursor = i
		}
	}
}

func (m *Model) deleteSelected() {
	if len(m.rows) == 0 {
		return
	}
	id := m.rows[m.cursor].id

	var err error
	switch m.view {
	case HeroView:
		_, err = m.adapter.DeleteHeroImage(id)
	case CategoryView:
		_, err = m.adapter.DeleteCategory(id)
	case AlbumView:
		_, err = m.adapter.DeleteAlbum(id)
	case ImageView:
		_, err = m.adapter.DeleteImage(id)
	}
	if err != nil {
		m.pushNotice(localNotice(tasks.OpDelete, m.view.kind(), id, err))
	}
	m.refreshRows()
}

func (m *Model) open() {
	if len(m.rows) == 0 {
		return
	}
	switch m.view {
	case CategoryView:
		m.categoryID = m.rows[m.cursor].id
		m.setView(AlbumView, 0)
	case AlbumView:
		m.albumID = m.rows[m.cursor].id
		m.setView(ImageView, 0)
	}
}

// back returns to the parent list with the cursor on the item that was opened.
func (m *Model) back() {
	switch m.view {
	case AlbumView:
		m.setView(CategoryView, 0)
		m.cursorTo(m.categoryID)
	case ImageView:
		m.setView(AlbumView, 0)
		m.cursorTo(m.albumID)
	}
}

func (m *Model) setView(v ViewState, cursor int) {
	m.view = v
	m.cursor = cursor
	m.tracker.End()
	m.refreshRows()
}

func (m *Model) cursorTo(id string) {
	for i, r := range m.rows {
		if r.id == id {
			m.cursor = i
			return
		}
	}
}

func (m *Model) cyclePage(delta int) {
	if m.view != HeroView {
		return
	}
	pages := m.adapter.Store().Pages()
	if len(pages) == 0 {
		return
	}
	i := 0
	for j, p := range pages {
		if p == m.page {
			i = j
		}
	}
	i = (i + delta + len(pages)) % len(pages)
	m.page = pages[i]
	m.setView(HeroView, 0)
}

// refreshRows rebuilds the visible list from the store.
func (m *Model) refreshRows() {
	s := m.adapter.Store()
	m.categoryID = m.adapter.Canonical(m.categoryID)
	m.albumID = m.adapter.Canonical(m.albumID)

	var rows []row
	switch m.view {
	case HeroView:
		if pages := s.Pages(); len(pages) > 0 && !slices.Contains(pages, m.page) {
			m.page = pages[0]
		}
		for _, h := range s.HeroImages(m.page) {
			rows = append(rows, row{id: h.ID, title: fallback(h.Alt, h.ID), detail: h.URL})
		}
	case CategoryView:
		for _, c := range s.Categories() {
			rows = append(rows, row{id: c.ID, title: c.Name, detail: plural(len(c.Albums), "album")})
		}
	case AlbumView:
		for _, a := range s.AlbumsByCategory(m.categoryID) {
			rows = append(rows, row{id: a.ID, title: a.Name, detail: plural(len(a.Images), "image")})
		}
	case ImageView:
		for _, img := range s.ImagesByAlbum(m.albumID) {
			rows = append(rows, row{id: img.ID, title: fallback(img.Alt, img.ID), detail: img.URL})
		}
	}

	m.rows = rows
	if m.cursor >= len(rows) {
		m.cursor = max(len(rows)-1, 0)
	}
}

func (m *Model) pushNotice(n tasks.Notice) {
	m.status = append(m.status, n)
	if len(m.status) > maxNotices {
		m.status = m.status[len(m.status)-maxNotices:]
	}
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg(m.adapter.Refresh(m.ctx))
	}
}

func (m *Model) waitForNotice() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	notices := m.notices
	return func() tea.Msg {
		n, ok := <-notices
		if !ok {
			return noticesClosedMsg()
		}
		return noticeMsg(n)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	lines := []string{m.header(), styles.help.Render(m.breadcrumb()), ""}

	if len(m.rows) == 0 {
		lines = append(lines, styles.help.Render("  (empty)"))
	}
	dragging, isDragging := m.tracker.Dragging()
	for i, r := range m.rows {
		line := fmt.Sprintf("  %2d. %s  %s", i+1, r.title, styles.help.Render(r.detail))
		switch {
		case isDragging && r.id == dragging:
			line = styles.drag.Render(fmt.Sprintf("≡ %2d. %s", i+1, r.title))
		case i == m.cursor:
			line = styles.sel.Render(fmt.Sprintf("› %2d. %s", i+1, r.title)) + "  " + styles.help.Render(r.detail)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	if m.err != nil {
		lines = append(lines, styles.err.Render(fmt.Sprintf("Refresh failed: %v", m.err)))
	}
	for _, n := range m.status {
		lines = append(lines, styles.Notice(n.Level).Render(n.String()))
	}

	if m.confirm && len(m.rows) > 0 {
		prompt := fmt.Sprintf("Delete %s %q?", m.view.kind(), m.rows[m.cursor].title)
		if m.view == CategoryView || m.view == AlbumView {
			prompt += " Everything inside it is deleted too."
		}
		lines = append(lines, styles.warn.Render(prompt), m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no}))
	} else {
		lines = append(lines, m.help.ShortHelpView(m.helpKeys()))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) header() string {
	title := "Gallery"
	if m.view == HeroView {
		title = "Hero Images"
	}
	mode := "offline"
	if m.adapter.Online() {
		mode = "online"
	}
	if m.loading {
		mode += ", refreshing…"
	}
	return styles.title.Render(title) + " " + styles.help.Render("("+mode+")")
}

func (m *Model) breadcrumb() string {
	s := m.adapter.Store()
	switch m.view {
	case HeroView:
		return "page: " + m.page
	case AlbumView:
		if c, err := s.Category(m.categoryID); err == nil {
			return "Categories › " + c.Name
		}
	case ImageView:
		if a, err := s.Album(m.albumID); err == nil {
			if c, err := s.Category(a.CategoryID); err == nil {
				return "Categories › " + c.Name + " › " + a.Name
			}
		}
	}
	return "Categories"
}

func (m *Model) helpKeys() []key.Binding {
	keys := []key.Binding{m.keys.moveUp, m.keys.moveDown}
	switch m.view {
	case HeroView:
		keys = append(keys, m.keys.prevPage, m.keys.nextPage)
	case CategoryView, AlbumView:
		keys = append(keys, m.keys.enter)
	}
	if m.view == AlbumView || m.view == ImageView {
		keys = append(keys, m.keys.back)
	}
	return append(keys, m.keys.tab, m.keys.del, m.keys.refresh, m.keys.quit)
}

// localNotice reports an edit the store rejected before anything was replicated.
func localNotice(op tasks.Op, kind models.Kind, id string, err error) tasks.Notice {
	msg := fmt.Sprintf("Could not %s %s", op, kind)
	if errors.Is(err, shared.ErrInvalidPosition) {
		msg = fmt.Sprintf("Cannot move %s there", kind)
	}
	return tasks.Notice{Level: tasks.LevelError, Op: op, Kind: kind, ID: id, Message: msg, Err: err}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
