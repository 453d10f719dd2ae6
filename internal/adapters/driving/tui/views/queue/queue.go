// Package queue provides the conversion queue view for the TUI.
package queue

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pipe3d/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pipe3d/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pipe3d/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driving"
)

// Services are the driving ports the view calls.
type Services struct {
	Queue        driving.ConversionQueue
	Settings     driving.BackendSettingsService
	Connectivity driving.ConnectivityService
	Actions      driving.ResultActionService
}

// View lists queued items with their status and the backend connection.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	help      help.Model
	services  Services
	exportDir string
	ctx       context.Context

	items      []domain.ConversionItem
	selected   int
	conn       domain.ConnectivityState
	processing bool
	showHelp   bool
	notice     string
	err        error
	width      int
	height     int
}

// NewView creates a queue view. Exported results are written to exportDir.
func NewView(s *styles.Styles, km *keymap.KeyMap, services Services, exportDir string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:    s,
		keymap:    km,
		help:      help.New(),
		services:  services,
		exportDir: exportDir,
		ctx:       context.Background(),
		conn:      domain.IdleConnectivity(),
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the queue and probes the active endpoint.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.load(), v.check())
}

// Update handles messages for the queue view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ItemsLoaded:
		v.items = msg.Items
		v.clampSelection()
		return v, nil

	case messages.ItemUpdated:
		v.upsert(msg.Item)
		return v, nil

	case messages.ProcessFinished:
		v.processing = false
		v.err = msg.Err
		return v, v.load()

	case messages.ConnectivityChecked:
		v.conn = msg.State
		return v, nil

	case messages.ItemRemoved:
		v.err = msg.Err
		return v, v.load()

	case messages.ItemsCleared:
		v.err = msg.Err
		if msg.Err == nil {
			v.notice = fmt.Sprintf("Cleared %d items", msg.Count)
		}
		return v, v.load()

	case messages.ItemExported:
		v.err = msg.Err
		if msg.Err == nil {
			v.notice = "Exported " + msg.Path
		}
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	v.notice = ""

	switch {
	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.items)-1 {
			v.selected++
		}
	case keymap.Matches(key, v.keymap.Help):
		v.showHelp = !v.showHelp
	case keymap.Matches(key, v.keymap.Process):
		return v, v.process()
	case keymap.Matches(key, v.keymap.Check):
		return v, v.check()
	case keymap.Matches(key, v.keymap.Refresh):
		return v, v.load()
	case keymap.Matches(key, v.keymap.Remove):
		if item, ok := v.Selected(); ok {
			return v, v.remove(item.ID)
		}
	case keymap.Matches(key, v.keymap.Clear):
		return v, v.clear()
	case keymap.Matches(key, v.keymap.Export):
		if item, ok := v.Selected(); ok && item.Status == domain.StatusDone {
			return v, v.export(item.ID)
		}
	}
	return v, nil
}

// load returns a command that snapshots the queue.
func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		return messages.ItemsLoaded{Items: v.services.Queue.Items()}
	}
}

// process starts a drain unless one is already running.
func (v *View) process() tea.Cmd {
	if v.processing || v.services.Queue.IsProcessing() {
		v.notice = "Queue is busy"
		return nil
	}
	v.processing = true
	v.err = nil
	ctx := v.ctx
	return func() tea.Msg {
		return messages.ProcessFinished{Err: v.services.Queue.ProcessAll(ctx)}
	}
}

// check marks the connection as checking and probes in the background.
func (v *View) check() tea.Cmd {
	if v.services.Connectivity == nil {
		return nil
	}
	v.conn = domain.ConnectivityState{Status: domain.ConnectionChecking, Message: domain.MessageChecking}
	ctx := v.ctx
	return func() tea.Msg {
		return messages.ConnectivityChecked{State: v.services.Connectivity.CheckActive(ctx)}
	}
}

func (v *View) remove(id string) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		return messages.ItemRemoved{ID: id, Err: v.services.Queue.Remove(ctx, id)}
	}
}

func (v *View) clear() tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		n, err := v.services.Queue.Clear(ctx)
		return messages.ItemsCleared{Count: n, Err: err}
	}
}

func (v *View) export(id string) tea.Cmd {
	if v.services.Actions == nil {
		return nil
	}
	ctx := v.ctx
	return func() tea.Msg {
		path, err := v.services.Actions.Export(ctx, id, v.exportDir)
		return messages.ItemExported{Path: path, Err: err}
	}
}

// upsert replaces the item with the same ID or appends it.
func (v *View) upsert(item domain.ConversionItem) {
	for i := range v.items {
		if v.items[i].ID == item.ID {
			v.items[i] = item
			return
		}
	}
	v.items = append(v.items, item)
}

func (v *View) clampSelection() {
	if v.selected >= len(v.items) {
		v.selected = len(v.items) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
}

// View renders the queue view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		v.styles.Title.Render("pipe3d  GLB → FBX"),
		"  ",
		v.renderConnection(),
	))
	b.WriteString("\n\n")

	if len(v.items) == 0 {
		b.WriteString(v.styles.Muted.Render("Queue is empty. Add .glb files with `pipe3d add` or `pipe3d watch`."))
		b.WriteString("\n")
	}
	for i := range v.items {
		b.WriteString(v.renderItem(i, &v.items[i]))
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}
	if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(v.notice))
		b.WriteString("\n")
	}
	if v.showHelp {
		b.WriteString("\n")
		b.WriteString(v.help.FullHelpView(v.keymap.FullHelp()))
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderConnection() string {
	label := v.conn.Message
	if v.services.Settings != nil {
		label = fmt.Sprintf("%s · %s", v.services.Settings.Get().Mode.Description(), label)
	}
	return v.styles.Connection(v.conn.Status).Render(label)
}

func (v *View) renderItem(index int, item *domain.ConversionItem) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	status := v.styles.ItemStatus(item.Status).Render(fmt.Sprintf("%-10s", item.Status))
	line := fmt.Sprintf("%s%s %s", indicator, status, item.Source.Name)
	switch {
	case item.Status == domain.StatusError:
		line += "  " + v.styles.Error.Render(item.Error)
	case item.ResultPreview != nil:
		line += "  " + v.styles.Muted.Render("→ "+item.ResultName())
	}
	return line
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.help.Width = width
}

// Items returns the displayed items.
func (v *View) Items() []domain.ConversionItem {
	return v.items
}

// Selected returns the highlighted item.
func (v *View) Selected() (domain.ConversionItem, bool) {
	if v.selected < 0 || v.selected >= len(v.items) {
		return domain.ConversionItem{}, false
	}
	return v.items[v.selected], true
}

// Processing reports whether a drain started from this view is running.
func (v *View) Processing() bool {
	return v.processing
}

// Pending returns the number of pending items displayed.
func (v *View) Pending() int {
	n := 0
	for _, it := range v.items {
		if it.Status == domain.StatusPending {
			n++
		}
	}
	return n
}

// Connection returns the displayed connectivity state.
func (v *View) Connection() domain.ConnectivityState {
	return v.conn
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
