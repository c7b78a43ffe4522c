package accounts

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"github.com/bnema/garm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSingleAccount(t *testing.T) {
	output, err := Render([]domain.Account{
		{
			ID:              "u42",
			Handle:          "alice",
			PublicKey:       testPublicKeyPEM(t),
			ProfileImageURL: "https://avatars.example/alice.jpg",
			ProfileURL:      "https://steamcommunity.com/id/alice",
			CreatedAt:       time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 1")
	assert.Contains(t, output, "alice (u42)")
	assert.Contains(t, output, "https://steamcommunity.com/id/alice")
	assert.Contains(t, output, "key: ok")
	assert.Contains(t, output, "2024-03-01T10:30:00Z")
	assert.NotContains(t, output, "actor:")
}

func TestRenderMultipleAccountsWithOrigin(t *testing.T) {
	output, err := Render([]domain.Account{
		{ID: "u42", Handle: "alice", PublicKey: testPublicKeyPEM(t)},
		{ID: "u7", Handle: "bob", PublicKey: []byte("not a key")},
	}, RenderOptions{Origin: "http://garm.example"})

	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 2")
	assert.Contains(t, output, "actor: https://garm.example/user/alice")
	assert.Contains(t, output, "actor: https://garm.example/user/bob")
	assert.Contains(t, output, "key: invalid (invalid key material: no pem block found)")
	assert.Contains(t, output, "profile: none")
	assert.Contains(t, output, "published: unknown")
	assert.Contains(t, output, "keys: 1 ok, 1 invalid")
	assert.Contains(t, output, "without profile page: 2")
}

func TestRenderListsAccountsByHandle(t *testing.T) {
	output, err := Render([]domain.Account{
		{ID: "u9", Handle: "zoe", PublicKey: testPublicKeyPEM(t), ProfileURL: "https://steamcommunity.com/id/zoe"},
		{ID: "u42", Handle: "alice", PublicKey: testPublicKeyPEM(t), ProfileURL: "https://steamcommunity.com/id/alice"},
	}, RenderOptions{})

	require.NoError(t, err)
	alice := strings.Index(output, "alice (u42)")
	zoe := strings.Index(output, "zoe (u9)")
	require.NotEqual(t, -1, alice)
	require.NotEqual(t, -1, zoe)
	assert.Less(t, alice, zoe)
	assert.Contains(t, output, "keys: 2 ok")
	assert.NotContains(t, output, "invalid")
	assert.NotContains(t, output, "without profile page")
}

func TestNewModelDerivesRowsOnce(t *testing.T) {
	m := newModel([]domain.Account{
		{ID: "u42", Handle: "alice", PublicKey: testPublicKeyPEM(t)},
		{ID: "u7", Handle: "bob"},
	}, RenderOptions{Origin: "https://garm.example/fed/"})

	require.Len(t, m.rows, 2)
	assert.Equal(t, "https://garm.example/fed/user/alice", m.rows[0].actorURL)
	assert.NoError(t, m.rows[0].keyErr)
	assert.ErrorIs(t, m.rows[1].keyErr, domain.ErrInvalidKeyMaterial)
	assert.Equal(t, keySummary{valid: 1, invalid: 1, withoutProfile: 2}, m.summary)
	assert.NoError(t, m.originErr)
}

func TestRenderReportsUnusableOrigin(t *testing.T) {
	output, err := Render([]domain.Account{{ID: "u42", Handle: "alice"}}, RenderOptions{Origin: "/relative"})

	require.NoError(t, err)
	assert.Contains(t, output, "origin:")
	assert.Contains(t, output, "has no host")
	assert.NotContains(t, output, "actor:")
}

func TestRenderEmptyAccountList(t *testing.T) {
	output, err := Render(nil, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 0")
	assert.Contains(t, output, "No accounts configured.")
}

func testPublicKeyPEM(t *testing.T) []byte {
	t.Helper()

	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(publicKey)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}
