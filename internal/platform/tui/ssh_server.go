package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tetris/host_key.
	HostKeyPath string

	// DBPath is the path to the replay journal.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game is the tetris configuration every session plays with.
	Game config.TetrisConfig
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      storage.DefaultPath,
		IdleTimeout: 30 * time.Minute,
		Game:        config.DefaultTetrisConfig(),
	}
}

// SSHServer wraps a Wish SSH server that hands every connection its own
// tetris session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tetris-ssh",
	})

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open replay journal", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".tetris", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	rt := core.DefaultConfig()
	rt.ScreenW = pty.Window.Width
	rt.ScreenH = pty.Window.Height

	// Remote players get no audio; the server's speaker is not theirs.
	model := NewSessionModel(s.store, rt, s.config.Game)
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until an interrupt.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenReplays
	screenPlayback
)

// SessionModel drives one connection: menu, game, replay browser and
// playback, returning to the menu after each.
type SessionModel struct {
	store    *storage.Store
	runtime  core.RuntimeConfig
	cfg      config.TetrisConfig
	screen   sessionScreen
	menu     MenuModel
	game     Model
	replays  ReplaysModel
	playback PlaybackModel
	quitting bool
}

// NewSessionModel creates a new session model. store may be nil.
func NewSessionModel(store *storage.Store, rt core.RuntimeConfig, cfg config.TetrisConfig) SessionModel {
	return SessionModel{
		store:   store,
		runtime: rt,
		cfg:     cfg,
		menu:    NewMenuModel(rt.ScreenW, rt.ScreenH, true),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.runtime.ScreenW = wsm.Width
		m.runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenReplays:
		return m.updateReplays(msg)
	case screenPlayback:
		return m.updatePlayback(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch m.menu.Choice() {
	case MenuQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuPlay:
		opts := Options{
			Runtime:  m.runtime,
			Config:   m.cfg,
			Embedded: true,
		}
		opts.Runtime.Seed = 0
		if m.store != nil {
			opts.Replays = m.store
		}
		m.game = NewModel(tetris.NewWithConfig(m.cfg), opts)
		m.screen = screenGame
		return m, m.game.Init()

	case MenuReplays:
		m.replays = m.newReplays()
		m.screen = screenReplays
		return m, m.replays.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(Model)
	if m.game.Done() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateReplays(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.replays.Update(msg)
	m.replays = next.(ReplaysModel)

	switch {
	case m.replays.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.replays.IsGoingBack():
		return m.backToMenu()

	case m.replays.Selected() != "":
		rec, err := m.store.GetReplay(m.replays.Selected())
		if err != nil {
			// Back to a fresh browser; the row may have been deleted meanwhile.
			m.replays = m.newReplays()
			return m, nil
		}
		m.playback = NewPlaybackModel(rec, m.cfg, m.runtime.ScreenW, m.runtime.ScreenH, true)
		m.screen = screenPlayback
		return m, m.playback.Init()
	}

	return m, cmd
}

func (m SessionModel) updatePlayback(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.playback.Update(msg)
	m.playback = next.(PlaybackModel)
	if m.playback.Done() {
		m.replays = m.newReplays()
		m.screen = screenReplays
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) newReplays() ReplaysModel {
	var store ReplayStore
	if m.store != nil {
		store = m.store
	}
	return NewReplaysModel(store, m.runtime.ScreenW, m.runtime.ScreenH, true)
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.runtime.ScreenW, m.runtime.ScreenH, true)
	m.screen = screenMenu
	return m, m.menu.Init()
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenReplays:
		return m.replays.View()
	case screenPlayback:
		return m.playback.View()
	default:
		return m.menu.View()
	}
}
