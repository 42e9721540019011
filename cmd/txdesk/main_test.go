package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/jask/txdesk/internal/auth"
	"github.com/jask/txdesk/internal/config"
	"github.com/jask/txdesk/internal/docstore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("TXDESK_CONFIG", path)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenCommandIssuesAdminSession(t *testing.T) {
	writeConfig(t, "[auth]\nsecret = \"cli-secret\"\n")

	out, err := execute(t, "token", "--subject", "u-42", "--email", "ops@example.com")
	require.NoError(t, err)

	s, err := auth.NewGate("cli-secret").Authorize(strings.TrimSpace(out))
	require.NoError(t, err)
	require.Equal(t, "u-42", s.Subject)
	require.Equal(t, "ops@example.com", s.Email)
	require.True(t, s.IsAdmin())
}

func TestTokenCommandRequiresSubject(t *testing.T) {
	writeConfig(t, "[auth]\nsecret = \"cli-secret\"\n")
	_, err := execute(t, "token")
	require.Error(t, err)
}

func TestSeedFillsSQLiteStore(t *testing.T) {
	dir := writeConfig(t, "")
	dbPath := filepath.Join(dir, "seed.db")
	t.Setenv("TXDESK_STORE_SQLITE_PATH", dbPath)

	out, err := execute(t, "seed", "--count", "7")
	require.NoError(t, err)
	require.Contains(t, out, "seeded 7 transactions")

	cfg, err := config.Load()
	require.NoError(t, err)
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	svc, release, err := openStore(context.Background(), cfg, quiet)
	require.NoError(t, err)
	defer release()

	res, err := docstore.NewTransactionReader(svc, cfg.Store.Collection).Fetch(context.Background())
	require.NoError(t, err)
	require.Empty(t, res.Rejected)
	require.Len(t, res.Transactions, 7)
	for i := 1; i < len(res.Transactions); i++ {
		require.False(t, res.Transactions[i].Timestamp.After(res.Transactions[i-1].Timestamp))
	}
}

func TestSeedRejectsRemoteBackends(t *testing.T) {
	writeConfig(t, "[store]\nbackend = \"mongo\"\n")
	_, err := execute(t, "seed")
	require.ErrorContains(t, err, "sqlite")
}

func TestLoginSavesSessionAndLogoutForgets(t *testing.T) {
	writeConfig(t, "[auth]\nsecret = \"cli-secret\"\n")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	token, err := auth.Issue("cli-secret", auth.Session{Subject: "u1", Email: "ops@example.com", Role: auth.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	out, err := execute(t, "login", "--token", token)
	require.NoError(t, err)
	require.Contains(t, out, "signed in as ops@example.com")
	require.Equal(t, token, savedToken(quiet))

	_, err = execute(t, "logout")
	require.NoError(t, err)
	require.Empty(t, savedToken(quiet))
}

func TestLoginRejectsNonAdmin(t *testing.T) {
	writeConfig(t, "[auth]\nsecret = \"cli-secret\"\n")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	token, err := auth.Issue("cli-secret", auth.Session{Subject: "u1", Role: "support"}, time.Hour)
	require.NoError(t, err)
	_, err = execute(t, "login", "--token", token)
	require.ErrorIs(t, err, auth.ErrNotAdmin)
}

func TestOpenStoreMemoryDemo(t *testing.T) {
	writeConfig(t, "[store]\nbackend = \"memory\"\n[store.memory]\nseed = 6\nlatency = \"0s\"\n")
	cfg, err := config.Load()
	require.NoError(t, err)
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	svc, release, err := openStore(context.Background(), cfg, quiet)
	require.NoError(t, err)
	defer release()

	res, err := docstore.NewTransactionReader(svc, cfg.Store.Collection).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Transactions, 6)
}
