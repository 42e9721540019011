package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jask/txdesk/internal/auth"
	"github.com/jask/txdesk/internal/config"
	"github.com/jask/txdesk/internal/diag"
	"github.com/jask/txdesk/internal/docstore"
	"github.com/jask/txdesk/internal/money"
	"github.com/jask/txdesk/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var token string
	root := &cobra.Command{
		Use:          "txdesk",
		Short:        "Admin console for the transaction ledger",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd.Context(), token)
		},
	}
	root.Flags().StringVar(&token, "token", "", tokenUsage)

	view := &cobra.Command{
		Use:   "view",
		Short: "Open the transaction list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd.Context(), token)
		},
	}
	view.Flags().StringVar(&token, "token", "", tokenUsage)

	root.AddCommand(view, newTokenCmd(), newLoginCmd(), newLogoutCmd(), newSeedCmd())
	return root
}

const tokenUsage = "session token (default: $TXDESK_SESSION, auth.token, then the saved login)"

func runView(ctx context.Context, token string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	log, closer, err := diag.NewLogger(cfg.Log.Path, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer closer.Close()

	if token == "" {
		token = cfg.SessionToken()
	}
	if token == "" {
		token = savedToken(log)
	}

	svc, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("open store")
		return err
	}
	defer closeStore()

	reader := docstore.NewTransactionReader(svc, cfg.Store.Collection)
	presenter := tui.Presenter{
		Money:    money.NewFormatter(cfg.UI.Locale),
		Currency: cfg.UI.CurrencyCode,
		Location: loc,
		Layout:   cfg.UI.TimeLayout,
	}
	reporter := diag.LogReporter{Log: log}

	gate := tui.NewGate(auth.NewGate(cfg.Auth.Secret), token, func(s auth.Session) tea.Model {
		log.WithFields(logrus.Fields{"subject": s.Subject, "email": s.Email}).Info("admin session accepted")
		list := tui.NewListView(ctx, tui.ListOptions{
			Reader:    reader,
			Diag:      reporter,
			Presenter: presenter,
			Timeout:   cfg.Query.Timeout,
		})
		return tui.NewShell(s, list, presenter)
	})

	p := tea.NewProgram(gate, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run console: %w", err)
	}
	if err := gate.Err(); err != nil {
		log.WithError(err).Warn("console access denied")
	}
	return nil
}
