package e2e

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	keyPath := writePublicKey(t, home)

	_, stderr, err := runGarm(t, binaryPath, home,
		"account", "add",
		"--id", "u42",
		"--handle", "alice",
		"--public-key-file", keyPath,
		"--profile-url", "https://steamcommunity.com/id/alice",
	)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := runGarm(t, binaryPath, home, "actor", "show", "u42", "--origin", "https://garm.example")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stderr, "u42 redirects to /user/alice")
	assert.Contains(t, stdout, `"id": "https://garm.example/user/alice"`)
	assert.Contains(t, stdout, `"owner": "https://garm.example/user/alice"`)
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "garm-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/garm")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build garm binary: %s", string(output))
	return binaryPath
}

func runGarm(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
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
