package main

import (
	"fmt"

	"imgsort/internal/gui"
	imghttp "imgsort/internal/http"
	"imgsort/internal/log"
	"imgsort/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewTUICmd creates the terminal UI command
func NewTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Annotate images from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			w := openWatcher(a.session.Directory())
			if w != nil {
				defer w.Stop()
			}

			m := tui.New(tui.Options{
				Session:     a.session,
				Watcher:     w,
				Interval:    cfg.SlideshowInterval(),
				Continuous:  cfg.Slideshow.Continuous,
				ClampHeight: cfg.ImageHeightClamp,
			})
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}
}

// NewGUICmd creates the desktop UI command
func NewGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Annotate images in a desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				return fmt.Errorf("this build has no desktop UI (built with -tags nogui)")
			}
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			w := openWatcher(a.session.Directory())
			if w != nil {
				defer w.Stop()
			}
			return gui.StartGUI(cfg, a.session, w)
		},
	}
}

// NewServeCmd creates the HTTP API command
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the annotation session over HTTP",
		Long: `Serve exposes the session as a JSON API and serves the images of the
current directory. GET / describes every endpoint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.ListenAddr
			}

			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			w := openWatcher(a.session.Directory())
			if w != nil {
				defer w.Stop()
			}

			handler, srv, err := imghttp.NewRouter(&imghttp.Deps{Session: a.session, Watcher: w})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if w != nil {
				go srv.Follow(ctx, w)
			}

			printInfo(cmd.OutOrStdout(), fmt.Sprintf("serving %s on http://%s", a.session.Directory(), addr))
			if err := imghttp.ListenAndServe(ctx, addr, handler); err != nil {
				log.LogWithError(err).Error("HTTP server failed")
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.listen_addr)")
	return cmd
}
