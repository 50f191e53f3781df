package cmd

import (
	"context"
	"errors"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ciciliostudio/hub/internal/api"
	"github.com/ciciliostudio/hub/internal/config"
	"github.com/ciciliostudio/hub/internal/history"
	"github.com/ciciliostudio/hub/internal/logging"
	"github.com/ciciliostudio/hub/internal/session"
	"github.com/ciciliostudio/hub/internal/ui"
)

// launchTUI initializes TUI components only when needed (lazy loading)
func launchTUI(cfg *config.Config, projectDir string) error {
	stateDir := stateDirFor(projectDir)

	client := api.NewClient(cfg.BaseURL())

	sessionMgr := session.NewManager(stateDir)
	sess, err := sessionMgr.Load()
	if err != nil {
		if errors.Is(err, session.ErrExpired) && sess != nil {
			logging.Info("session for %s expired, asking for a fresh login", sess.Email)
		}
		sess = nil
	} else {
		client.SetToken(sess.Token)
	}

	store, err := history.Open(filepath.Join(stateDir, "history.db"))
	if err != nil {
		logging.Warn("chat history disabled: %v", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	model, err := ui.NewModel(cfg, client, sessionMgr, sess, store)
	if err != nil {
		return err
	}

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	model.SetProgram(program)

	// Pick up config edits while the interface is running. Reload
	// failures only log, so this is best effort by construction.
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	watcher, werr := config.NewWatcher(config.NewLoader(projectDir), func(next *config.Config) {
		program.Send(ui.ConfigReloadedMsg{Config: next})
	})
	if werr != nil {
		logging.Warn("config watching disabled: %v", werr)
	} else {
		go watcher.Start(watchCtx)
	}

	_, err = program.Run()
	return err
}

// stateDirFor resolves the .hub directory holding the session and the
// chat history, preferring the directory the config was found in.
func stateDirFor(projectDir string) string {
	loader := config.NewLoader(projectDir)
	if root, err := loader.GetProjectRoot(); err == nil {
		return filepath.Join(root, config.ConfigDirName)
	}
	return filepath.Join(projectDir, config.ConfigDirName)
}
