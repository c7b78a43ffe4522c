package cmd

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/garm/internal/config"
	"github.com/bnema/garm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestAccountAddThenList(t *testing.T) {
	home := t.TempDir()
	addAlice(t, home)

	stdout, _, err := executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "accounts: 1")
	assert.Contains(t, stdout, "alice (u42)")
	assert.Contains(t, stdout, "key: ok")
	assert.Contains(t, stdout, "2024-03-01T10:30:00Z")

	stored, err := os.ReadFile(filepath.Join(home, ".garm", "accounts.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(stored), "accounts/u42/public.pem")
	assert.FileExists(t, filepath.Join(home, ".garm", "keys", "accounts", "u42", "public.pem"))
}

func TestAccountListJSONOutput(t *testing.T) {
	home := t.TempDir()
	addAlice(t, home)

	stdout, _, err := executeCLI(t, home, "account", "list", "--json")
	require.NoError(t, err)

	var accounts []accountOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, accountOutput{
		ID:              "u42",
		Handle:          "alice",
		ProfileURL:      "https://steamcommunity.com/id/alice",
		ProfileImageURL: "https://avatars.example/alice.jpg",
		CreatedAt:       "2024-03-01T10:30:00Z",
		KeyValid:        true,
	}, accounts[0])
}

func TestAccountListWithoutAccounts(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No accounts configured.")
}

func TestAccountAddRequiresProfileURL(t *testing.T) {
	home := t.TempDir()
	keyPath := writePublicKey(t, home)

	_, _, err := executeCLI(t, home,
		"account", "add",
		"--id", "u42",
		"--handle", "alice",
		"--public-key-file", keyPath,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"profile-url\" not set")
}

func TestAccountAddRejectsInvalidKey(t *testing.T) {
	home := t.TempDir()
	keyPath := filepath.Join(home, "bad.pem")
	require.NoError(t, os.WriteFile(keyPath, []byte("not a key"), 0o600))

	_, _, err := executeCLI(t, home,
		"account", "add",
		"--id", "u42",
		"--handle", "alice",
		"--public-key-file", keyPath,
		"--profile-url", "https://steamcommunity.com/id/alice",
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidKeyMaterial)
}

func TestAccountAddRejectsMalformedCreatedAt(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home,
		"account", "add",
		"--id", "u42",
		"--handle", "alice",
		"--public-key-file", writePublicKey(t, home),
		"--profile-url", "https://steamcommunity.com/id/alice",
		"--created-at", "yesterday",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--created-at must be RFC3339")
}

func TestAccountAddRejectsTakenHandle(t *testing.T) {
	home := t.TempDir()
	addAlice(t, home)

	_, _, err := executeCLI(t, home,
		"account", "add",
		"--id", "u7",
		"--handle", "alice",
		"--public-key-file", writePublicKey(t, home),
		"--profile-url", "https://steamcommunity.com/id/other",
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrHandleTaken)
}

func TestActorShowPrintsDocument(t *testing.T) {
	home := t.TempDir()
	addAlice(t, home)

	stdout, stderr, err := executeCLI(t, home, "actor", "show", "alice", "--origin", "https://garm.example")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "https://garm.example/user/alice", doc["id"])
	assert.Equal(t, "Person", doc["type"])
	assert.Equal(t, []any{"https://www.w3.org/ns/activitystreams", "https://w3id.org/security/v1"}, doc["@context"])
	assert.Contains(t, stdout, `<a href="https://steamcommunity.com/id/alice"`)
}

func TestActorShowReportsRedirectForInternalID(t *testing.T) {
	home := t.TempDir()
	addAlice(t, home)

	stdout, stderr, err := executeCLI(t, home, "actor", "show", "u42", "--origin", "https://garm.example")
	require.NoError(t, err)
	assert.Contains(t, stderr, "u42 redirects to /user/alice")
	assert.Contains(t, stdout, `"id": "https://garm.example/user/alice"`)
}

func TestActorShowUsesConfiguredPublicURL(t *testing.T) {
	home := t.TempDir()
	addAlice(t, home)
	t.Setenv("GARM_SERVER_PUBLIC_URL", "https://env.example/fed")

	stdout, _, err := executeCLI(t, home, "actor", "show", "alice")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"id": "https://env.example/fed/user/alice"`)
}

func TestActorShowRequiresOrigin(t *testing.T) {
	home := t.TempDir()
	addAlice(t, home)

	_, _, err := executeCLI(t, home, "actor", "show", "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestActorShowUnknownAccount(t *testing.T) {
	home := t.TempDir()
	addAlice(t, home)

	_, _, err := executeCLI(t, home, "actor", "show", "bob", "--origin", "https://garm.example")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestMalformedConfigFailsEveryCommand(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".garm"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".garm", "config.toml"), []byte("[server\n"), 0o600))

	_, _, err := executeCLI(t, home)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := newLogger(config.LogConfig{Level: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatty")

	logger, err := newLogger(config.LogConfig{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestRunServerServesUntilCancelled(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, listener, handler, config.ServerConfig{
			ReadHeaderTimeout: time.Second,
			ShutdownTimeout:   time.Second,
		}, zap.NewNop())
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func addAlice(t *testing.T, home string) {
	t.Helper()

	_, _, err := executeCLI(t, home,
		"account", "add",
		"--id", "u42",
		"--handle", "alice",
		"--public-key-file", writePublicKey(t, home),
		"--profile-url", "https://steamcommunity.com/id/alice",
		"--profile-image", "https://avatars.example/alice.jpg",
		"--created-at", "2024-03-01T11:30:00+01:00",
	)
	require.NoError(t, err)
}

func writePublicKey(t *testing.T, dir string) string {
	t.Helper()

	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(publicKey)
	require.NoError(t, err)

	path := filepath.Join(dir, "public.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600))
	return path
}
