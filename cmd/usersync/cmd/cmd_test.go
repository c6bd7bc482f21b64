package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "user-sync/internal/domain/user"
)

func setupUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `[{"id":1,"name":"Leanne Graham","username":"Bret","email":"Sincere@april.biz"}]`)
		case http.MethodPost:
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			body["id"] = 11
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(body)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	t.Setenv("UPSTREAM_BASE_URL", srv.URL)
	t.Setenv("JOURNAL_ENABLED", "true")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "journal.db"))
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_OUTPUT_PATH", "stderr")
}

// resetFlags restores every flag to its default so one run cannot leak into
// the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--config", t.TempDir()))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	setupUpstream(t)

	out, err := run(t, "list")

	require.NoError(t, err)
	var users []domain.User
	require.NoError(t, json.Unmarshal([]byte(out), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "Bret", users[0].Username)
}

func TestCreateCommand_Defaults(t *testing.T) {
	setupUpstream(t)

	out, err := run(t, "create", "--name", "Zed")

	require.NoError(t, err)
	var created domain.User
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, domain.User{ID: 11, Name: "Zed", Username: "New", Email: "New Email"}, created)
}

func TestCreateCommand_FlagsDoNotLeakBetweenRuns(t *testing.T) {
	setupUpstream(t)

	_, err := run(t, "create", "--username", "Alpha", "--email", "alpha@example.com")
	require.NoError(t, err)

	out, err := run(t, "create")

	require.NoError(t, err)
	var created domain.User
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, domain.User{ID: 11, Name: "New User", Username: "New", Email: "New Email"}, created)
}

func TestDeleteCommand_RemoteRefusal(t *testing.T) {
	setupUpstream(t)

	_, err := run(t, "delete", "--id", "3")

	assert.ErrorContains(t, err, "request_failed")
}

func TestJournalCommand(t *testing.T) {
	setupUpstream(t)
	dbPath := filepath.Join(t.TempDir(), "shared.db")
	t.Setenv("DB_PATH", dbPath)

	_, err := run(t, "list")
	require.NoError(t, err)

	out, err := run(t, "journal", "--limit", "5")

	require.NoError(t, err)
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "list")
	assert.Contains(t, out, "page 1 of 1 (1 entries)")
}

func TestMirrorCommand_Disabled(t *testing.T) {
	setupUpstream(t)

	_, err := run(t, "mirror")

	assert.ErrorContains(t, err, "mirror is disabled")
}
