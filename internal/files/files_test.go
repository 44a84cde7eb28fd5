package files

import (
	"os"
	"os/user"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceTildeInDir(t *testing.T) {
	usr, err := user.Current()
	require.NoError(t, err)

	testCases := []struct {
		input, expected string
	}{
		{"", ""},
		{"/tmp/tokenizer.json", "/tmp/tokenizer.json"},
		{"relative/dir", "relative/dir"},
		{"~", usr.HomeDir},
		{"~/models/tokenizer.json", path.Join(usr.HomeDir, "models/tokenizer.json")},
		{"~" + usr.Username + "/x", path.Join(usr.HomeDir, "x")},
	}
	for _, tc := range testCases {
		got, err := ReplaceTildeInDir(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.expected, got, "input %q", tc.input)
	}

	_, err = ReplaceTildeInDir("~no-such-user-for-sure-3f1a/x")
	assert.Error(t, err)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "content.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("hello"), 0o600))

	assert.True(t, Exists(filePath))
	content, err := Read(filePath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	missing := filepath.Join(dir, "missing.txt")
	assert.False(t, Exists(missing))
	_, err = Read(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
