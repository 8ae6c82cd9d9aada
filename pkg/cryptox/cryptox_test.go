package cryptox_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ParamD12/taskhub-app/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	s, err := cryptox.NewSealer([]byte("test-master-key-for-encryption-12345"))
	require.NoError(t, err)

	plaintext := []byte(`{"access_token":"abc","refresh_token":"def"}`)
	ad := []byte("session")

	sealed1, err := s.Seal(plaintext, ad)
	require.NoError(t, err)
	sealed2, err := s.Seal(plaintext, ad)
	require.NoError(t, err)
	require.NotEqual(t, sealed1, sealed2, "nonce must differ per seal")

	opened, err := s.Open(sealed1, ad)
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)

	t.Run("wrong additional data", func(t *testing.T) {
		_, err := s.Open(sealed1, []byte("other"))
		require.Error(t, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := cryptox.NewSealer([]byte("another-key"))
		require.NoError(t, err)
		_, err = other.Open(sealed1, ad)
		require.Error(t, err)
	})

	t.Run("tampered", func(t *testing.T) {
		tampered := append([]byte(nil), sealed1...)
		tampered[len(tampered)-1] ^= 0xff
		_, err := s.Open(tampered, ad)
		require.Error(t, err)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := s.Open([]byte{1, 2, 3}, ad)
		require.ErrorIs(t, err, cryptox.ErrCiphertextTooShort)
	})
}

func TestNewSealerRejectsEmptyKey(t *testing.T) {
	_, err := cryptox.NewSealer(nil)
	require.Error(t, err)
}

func TestLoadMasterKey(t *testing.T) {
	t.Run("file wins over env", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "master.key")
		require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))

		key, src, err := cryptox.LoadMasterKey(path, "from-env")
		require.NoError(t, err)
		require.Equal(t, cryptox.MasterKeyFromFile, src)
		require.Equal(t, []byte("from-file"), key)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, _, err := cryptox.LoadMasterKey(filepath.Join(t.TempDir(), "nope"), "")
		require.Error(t, err)
	})

	t.Run("env", func(t *testing.T) {
		key, src, err := cryptox.LoadMasterKey("", "from-env")
		require.NoError(t, err)
		require.Equal(t, cryptox.MasterKeyFromEnv, src)
		require.Equal(t, []byte("from-env"), key)
	})

	t.Run("ephemeral", func(t *testing.T) {
		key, src, err := cryptox.LoadMasterKey("", "")
		require.NoError(t, err)
		require.Equal(t, cryptox.MasterKeyFromEphemeral, src)
		require.Len(t, key, 32)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := cryptox.HashPassword("hunter22")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	require.NoError(t, cryptox.VerifyPassword("hunter22", hash))
	require.ErrorIs(t, cryptox.VerifyPassword("hunter23", hash), cryptox.ErrPasswordMismatch)
	require.Error(t, cryptox.VerifyPassword("hunter22", "not-a-hash"))
}

func TestTokens(t *testing.T) {
	a, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.Len(t, a, 43)

	b, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	require.Equal(t, cryptox.FingerprintToken(a), cryptox.FingerprintToken(a))
	require.NotEqual(t, cryptox.FingerprintToken(a), cryptox.FingerprintToken(b))

	_, err = cryptox.GenerateToken(0)
	require.Error(t, err)
}
