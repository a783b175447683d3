package store

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
	require.NoError(t, err)
	return s
}

func TestFileStore_EmptySession(t *testing.T) {
	s := newStore(t)

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok)

	data, err := s.UserData()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStore_TokenRoundTrip(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.SetToken("tok-1"))
	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	// Clearing works.
	require.NoError(t, s.SetToken(""))
	tok, err = s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestFileStore_UserDataRoundTrip(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.SetUserData([]byte(`{"email":"a@b.com"}`)))
	data, err := s.UserData()
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.com"}`, string(data))

	require.NoError(t, s.SetUserData(nil))
	data, err = s.UserData()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStore_IndependentKeys(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.SetToken("tok"))
	require.NoError(t, s.SetUserData([]byte(`{"email":"a@b.com"}`)))

	// Clearing the profile keeps the token and vice versa.
	require.NoError(t, s.SetUserData(nil))
	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SetToken("persisted"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	tok, err := reopened.Token()
	require.NoError(t, err)
	assert.Equal(t, "persisted", tok)
}

func TestFileStore_Reset(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SetToken("tok"))
	require.NoError(t, s.SetUserData([]byte(`{}`)))

	require.NoError(t, s.Reset())

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok)
	data, err := s.UserData()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStore_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	s := newStore(t)
	require.NoError(t, s.SetToken("secret"))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = s.Token()
	assert.Error(t, err)
}
