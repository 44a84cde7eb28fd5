package hftokenizer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	content := []byte(`{"version": "1.0", "model": {"vocab": {"a": 0}, "merges": []}, "normalizer": null}`)
	doc, err := ParseDocument(content)
	require.NoError(t, err)
	assert.Equal(t, len(content), doc.Size)

	version, found := doc.Get("version")
	assert.True(t, found)
	assert.Equal(t, "1.0", version)

	normalizer, found := doc.Get("normalizer")
	assert.True(t, found)
	assert.Nil(t, normalizer)

	_, found = doc.Get("pre_tokenizer")
	assert.False(t, found)

	// Numbers are kept exact.
	model := doc.Root["model"].(map[string]any)
	assert.Equal(t, json.Number("0"), model["vocab"].(map[string]any)["a"])

	// Same key in different objects is fine, empty arrays are not nil.
	doc, err = ParseDocument([]byte(`{"a": {"type": "x"}, "b": {"type": "y"}, "c": []}`))
	require.NoError(t, err)
	assert.Equal(t, []any{}, doc.Root["c"])
}

func TestParseDocumentMalformed(t *testing.T) {
	for _, content := range []string{
		"",
		"   ",
		`{"model": `,
		`{"model": {}`,
		`{"model": tru}`,
		`{} {}`,
		`{} x`,
		`[1, 2]`,
		`"model"`,
		`null`,
		"{\"\xff\": 0, \"\xfe\": 1}",
		"{\"model\": {\"vocab\": {\"caf\xe9\": 0}}}",
		`{"model": 1, "model": 2}`,
		`{"model": {"vocab": {"a": 0, "b": 1, "a": 2}}}`,
		`{"added_tokens": [{"id": 0, "id": 1}]}`,
		`{"a" 1}`,
		`{"a": 1,}`,
		`{1: 2}`,
	} {
		_, err := ParseDocument([]byte(content))
		require.Errorf(t, err, "content %q", content)
		assert.Truef(t, errors.Is(err, ErrMalformedInput), "content %q: %v", content, err)
	}

	// Trailing whitespace is fine.
	_, err := ParseDocument([]byte("{}\n\n"))
	require.NoError(t, err)
}

func TestReadDocument(t *testing.T) {
	content := `{"model": {"vocab": {}}}`
	doc, err := ReadDocument(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, len(content), doc.Size)
	assert.Contains(t, doc.Root, "model")
}

func TestLoadDocument(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), TokenizerFileName)
	require.NoError(t, os.WriteFile(filePath, []byte(`{"model": {"vocab": {}, "merges": []}}`), 0o644))
	doc, err := LoadDocument(filePath)
	require.NoError(t, err)
	assert.Contains(t, doc.Root, "model")

	_, err = LoadDocument(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, os.WriteFile(filePath, []byte(`{"model"`), 0o644))
	_, err = LoadDocument(filePath)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestLoadDocumentFS(t *testing.T) {
	fsys := fstest.MapFS{
		"gpt2/tokenizer.json": {Data: []byte(`{"model": {"vocab": {"a": 0}, "merges": []}}`)},
		"bad/tokenizer.json":  {Data: []byte(`not json`)},
	}
	doc, err := LoadDocumentFS(fsys, "gpt2/tokenizer.json")
	require.NoError(t, err)
	assert.Contains(t, doc.Root, "model")

	_, err = LoadDocumentFS(fsys, "bad/tokenizer.json")
	assert.True(t, errors.Is(err, ErrMalformedInput))

	_, err = LoadDocumentFS(fsys, "missing/tokenizer.json")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
