// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// navctl edits church navigation menus through the menu API.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/churchnav/internal/client"
	"github.com/olegiv/churchnav/internal/editor"
	"github.com/olegiv/churchnav/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// app holds the global flags and the collaborators shared by commands.
type app struct {
	server  string
	timeout time.Duration
	verbose bool

	httpClient *http.Client
	logger     *slog.Logger
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}

	root := &cobra.Command{
		Use:   "navctl",
		Short: "Edit church navigation menus",
		Long: `navctl lists, edits and reorders the navigation menus served by churchnav.

Item changes go through an editing session: new and edited items are
validated before anything is sent, visibility and order changes apply
at once and are rolled back if the server refuses them.`,
		Version:       info.String(),
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	server := os.Getenv("NAVCTL_SERVER")
	if server == "" {
		server = "http://localhost:8080"
	}
	root.PersistentFlags().StringVarP(&a.server, "server", "s", server, "churchnav base URL (or set NAVCTL_SERVER)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", client.DefaultTimeout, "Request timeout")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable debug logging")

	root.AddCommand(
		newMenusCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newMoveCmd(a),
		newToggleCmd(a),
		newDropdownCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newEventsCmd(a),
	)
	return root
}

func (a *app) client() (*client.Client, error) {
	hc := a.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: a.timeout}
	}
	return client.New(a.server, hc)
}

// session opens and loads an editing session. The caller closes it.
func (a *app) session(ctx context.Context, menuID string) (*editor.Session, error) {
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	s := editor.NewSession(c, menuID, editor.Options{Logger: a.logger})
	if err := s.Load(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("loading menu %s: %w", menuID, err)
	}
	return s, nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
