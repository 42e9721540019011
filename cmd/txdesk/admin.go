package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jask/txdesk/internal/auth"
	"github.com/jask/txdesk/internal/config"
	"github.com/jask/txdesk/internal/database"
	"github.com/jask/txdesk/internal/database/repository"
	"github.com/jask/txdesk/internal/sample"
	"github.com/jask/txdesk/internal/secrets"
)

func newTokenCmd() *cobra.Command {
	var (
		s   auth.Session
		ttl time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a session token with auth.secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, err := auth.Issue(cfg.Auth.Secret, s, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&s.Subject, "subject", "", "user id the session belongs to")
	cmd.Flags().StringVar(&s.Email, "email", "", "email shown in the header")
	cmd.Flags().StringVar(&s.Role, "role", auth.RoleAdmin, "session role")
	cmd.Flags().DurationVar(&ttl, "ttl", 8*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the local sqlite store with sample transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Store.Backend != config.BackendSQLite {
				return errors.New("seed only writes to the sqlite backend")
			}
			if count <= 0 {
				return fmt.Errorf("count must be positive, got %d", count)
			}
			db, err := database.OpenMigrated(cfg.Store.SQLite.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewDocumentRepo(db)
			if err := sample.Seed(cmd.Context(), repo, cfg.Store.Collection, count); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d transactions into %s\n", count, cfg.Store.SQLite.Path)
			return err
		},
	}
	cmd.Flags().IntVar(&count, "count", 50, "number of transactions to generate")
	return cmd
}

const sessionProfile = "default"

func newLoginCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check an admin session token and save it for later runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			s, err := auth.NewGate(cfg.Auth.Secret).Authorize(token)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			store, err := secrets.DefaultStore()
			if err != nil {
				return err
			}
			if err := store.Save(sessionProfile, token); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s until %s\n", s.Email, s.Expires.Format(time.RFC1123))
			return err
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "session token to save")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := secrets.DefaultStore()
			if err != nil {
				return err
			}
			return store.Forget(sessionProfile)
		},
	}
}

// savedToken returns the token saved by login, or "".
func savedToken(log *logrus.Logger) string {
	store, err := secrets.DefaultStore()
	if err != nil {
		return ""
	}
	token, err := store.Token(sessionProfile)
	if err != nil {
		if !errors.Is(err, secrets.ErrNotFound) {
			log.WithError(err).Warn("read saved session")
		}
		return ""
	}
	return token
}
