package walletcmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dmitrijs2005/recordkeeper/internal/client/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(-1)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(-1)
	for _, name := range []string{"init", "address", "grants", "revoke"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
	require.NotNil(t, cmd.PersistentFlags().Lookup("dir"))
}

func TestInitThenAddress(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "correct horse\ncorrect horse\n", "init", "-n", "PUBLIC")
	require.NoError(t, err)
	assert.Contains(t, out, "Wallet created: G")
	assert.Contains(t, out, "(PUBLIC)")

	ks, err := wallet.LoadKeystore(dir)
	require.NoError(t, err)
	assert.Equal(t, "PUBLIC", ks.Network)

	out, err = run(t, dir, "", "address")
	require.NoError(t, err)
	assert.Equal(t, ks.Address+"\n", out)

	out, err = run(t, dir, "", "address", "--short")
	require.NoError(t, err)
	assert.Contains(t, out, "...")

	_, err = run(t, dir, "correct horse\ncorrect horse\n", "init")
	require.ErrorIs(t, err, wallet.ErrKeystoreExists)
}

func TestInitRejectsBadPassphrase(t *testing.T) {
	_, err := run(t, t.TempDir(), "short\nshort\n", "init")
	require.ErrorContains(t, err, "at least")

	_, err = run(t, t.TempDir(), "long enough\ndifferent one\n", "init")
	require.ErrorContains(t, err, "do not match")
}

func TestAddressWithoutKeystore(t *testing.T) {
	_, err := run(t, t.TempDir(), "", "address")
	require.ErrorIs(t, err, wallet.ErrKeystoreNotFound)
}

func TestGrantsAndRevoke(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "", "grants")
	require.NoError(t, err)
	assert.Equal(t, "No grants.\n", out)

	require.NoError(t, wallet.AddGrant(dir, "recordkeeper", "GABCDEFGHIJKLMNOP"))

	out, err = run(t, dir, "", "grants")
	require.NoError(t, err)
	assert.Contains(t, out, "recordkeeper")
	assert.Contains(t, out, "GABC...MNOP")

	out, err = run(t, dir, "", "revoke", "recordkeeper")
	require.NoError(t, err)
	assert.Equal(t, "Revoked recordkeeper\n", out)

	out, err = run(t, dir, "", "revoke", "recordkeeper")
	require.NoError(t, err)
	assert.Equal(t, "No grant for recordkeeper\n", out)

	_, err = run(t, dir, "", "revoke")
	require.Error(t, err)
}
