package hub

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanRelativeFilePath(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"foo/bar", "foo/bar"},
		{"foo/../bar", "bar"},
		{"foo/./bar", "foo/bar"},
		{"/foo/bar", "foo/bar"},
		{"foo//bar", "foo/bar"},
		{"foo/bar/..", "foo"},
		{"../foo/bar", "foo/bar"},
		{"foo/../../../..", "."},
		{"foo/../../../bar", "bar"},
		{"", "."},
		{".", "."},
		{"..", "."},
	}

	for _, tc := range testCases {
		expected := filepath.FromSlash(tc.expected)
		got := cleanRelativeFilePath(tc.input)
		fmt.Printf("\tcleanRelativeFilePath(%q) = %q\n", tc.input, got)
		assert.Equal(t, expected, got)
	}
}

// newCachedRepo creates a Repo whose info and files are already in a temporary cache, so no network is used.
func newCachedRepo(t *testing.T, files map[string]string) *Repo {
	cacheDir := t.TempDir()
	repo := New("owner/model").WithCacheDir(cacheDir).WithEndpoint("https://huggingface.co")
	repo.Verbosity = 0

	repoDir := filepath.Join(cacheDir, "models--owner--model")
	require.NoError(t, os.MkdirAll(filepath.Join(repoDir, "info"), 0o755))
	info := `{"id": "owner/model", "sha": "0123abcd", "siblings": [`
	first := true
	for name := range files {
		if !first {
			info += ","
		}
		first = false
		info += fmt.Sprintf(`{"rfilename": %q}`, name)
	}
	info += `]}`
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "info", "main"), []byte(info), 0o644))

	for name, content := range files {
		filePath := filepath.Join(repoDir, "snapshots", "0123abcd", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}
	return repo
}

func TestRepoFromCache(t *testing.T) {
	repo := newCachedRepo(t, map[string]string{
		"tokenizer.json":        `{"model": {"vocab": {}, "merges": []}}`,
		"tokenizer_config.json": `{"bos_token": "<s>"}`,
	})

	require.NoError(t, repo.DownloadInfo(false))
	assert.Equal(t, "0123abcd", repo.Info().CommitHash)
	assert.True(t, repo.HasFile("tokenizer.json"))
	assert.False(t, repo.HasFile("tokenizer.model"))

	var names []string
	for name, err := range repo.IterFileNames() {
		require.NoError(t, err)
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"tokenizer.json", "tokenizer_config.json"}, names)

	paths, err := repo.DownloadFiles("tokenizer.json", "tokenizer_config.json")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	content, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, `{"bos_token": "<s>"}`, string(content))

	url, err := repo.FileURL("tokenizer.json")
	require.NoError(t, err)
	assert.Equal(t, "https://huggingface.co/owner/model/resolve/0123abcd/tokenizer.json", url)

	_, err = repo.DownloadFiles("..")
	assert.Error(t, err)
}

func TestRepoIllegalFileNames(t *testing.T) {
	repo := newCachedRepo(t, map[string]string{"../escape.json": "{}"})
	for _, err := range repo.IterFileNames() {
		assert.Error(t, err)
	}
}
