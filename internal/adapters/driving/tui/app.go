package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pipe3d/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pipe3d/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pipe3d/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pipe3d/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pipe3d/internal/adapters/driving/tui/views/queue"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// queueView lists items and the connection state.
	queueView *queue.View

	// statusBar shows progress and key hints.
	statusBar *status.Bar

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports. Results
// exported from the TUI are written to exportDir.
func NewApp(ports *Ports, exportDir string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: s,
		keymap: km,
		queueView: queue.NewView(s, km, queue.Services{
			Queue:        ports.Queue,
			Settings:     ports.Settings,
			Connectivity: ports.Connectivity,
			Actions:      ports.ResultAction,
		}, exportDir),
		statusBar: status.NewBar(s, km),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.queueView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("pipe3d - GLB to FBX"),
		a.queueView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}
		a.queueView, cmd = a.queueView.Update(msg)

	case messages.ErrorOccurred:
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil

	default:
		a.queueView, cmd = a.queueView.Update(msg)
	}

	a.syncStatus()
	return a, cmd
}

// syncStatus mirrors the queue view state into the status bar.
func (a *App) syncStatus() {
	a.statusBar.SetPending(a.queueView.Pending())
	a.statusBar.SetMessage("")
	switch {
	case a.queueView.Processing():
		a.statusBar.SetState(status.StateProcessing)
	case a.queueView.Err() != nil:
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(a.queueView.Err().Error())
	default:
		a.statusBar.SetState(status.StateReady)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.queueView.View())
	b.WriteString("\n")
	b.WriteString(a.statusBar.View())
	return b.String()
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.queueView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}

// Ready reports whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// QueueView returns the queue view.
func (a *App) QueueView() *queue.View {
	return a.queueView
}

// Context returns the app context.
func (a *App) Context() context.Context {
	return a.ctx
}
