package embeddings

import (
	"testing"

	"github.com/pepesi/go-huggingface/tokenizers/hftokenizer"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	table := New(3, 2)
	require.Len(t, table.Weights, 6)

	require.NoError(t, table.Set(1, []float32{1, 2}))
	require.NoError(t, table.Set(2, []float32{3, 4}))
	vec, err := table.Vector(1)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, vec)
	vec, err = table.Vector(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0}, vec)

	// Vector is a view, Lookup a copy.
	vec, _ = table.Vector(2)
	vec[0] = 30
	got, err := table.Lookup([]int{2, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float32{30, 4, 1, 2, 30, 4}, got)
	got[0] = -1
	assert.Equal(t, float32(30), table.Weights[4])

	clone := table.Clone()
	clone.Weights[2] = 100
	assert.Equal(t, float32(1), table.Weights[2])

	for _, id := range []int{-1, 3} {
		_, err = table.Vector(id)
		assert.Truef(t, errors.Is(err, ErrOutOfRange), "id %d", id)
		assert.True(t, errors.Is(table.Set(id, []float32{0, 0}), ErrOutOfRange))
	}
	assert.True(t, errors.Is(table.Set(0, []float32{1, 2, 3}), ErrOutOfRange))
	_, err = table.Lookup([]int{0, 7})
	assert.True(t, errors.Is(err, ErrOutOfRange))

	assert.Equal(t, "embeddings.Table[3 x 2] (24 B)", table.String())
	assert.Panics(t, func() { New(-1, 2) })
}

func TestForModel(t *testing.T) {
	m, err := hftokenizer.NewFromContent(nil, []byte(`{
		"added_tokens": [{"id": 1000, "content": "<|im_end|>", "special": true}],
		"model": {"vocab": {"a": 0, "b": 1}, "merges": ["a b"]}
	}`))
	require.NoError(t, err)
	table := ForModel(m, 4)
	assert.Equal(t, 1001, table.Rows)
	assert.Equal(t, 4, table.Dim)

	id, err := m.TokenToID("<|im_end|>")
	require.NoError(t, err)
	require.NoError(t, table.Set(id, []float32{1, 1, 1, 1}))
	assert.Equal(t, "embeddings.Table[1,001 x 4] (16 kB)", table.String())
}
