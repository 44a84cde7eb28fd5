// Package embeddings holds a token embedding table, a dense [rows, dim] matrix of float32 indexed by
// token id, sized to cover all the ids of a tokenizer model.
//
// Example:
//
//	m, err := tokenizers.New(hub.New("google-bert/bert-base-uncased"))
//	if err != nil { ... }
//	table := embeddings.ForModel(m, 768)
//	err = table.Set(id, vector)
package embeddings

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// ErrOutOfRange is returned (wrapped) for ids outside the table, or vectors of the wrong dimension.
var ErrOutOfRange = errors.New("embedding index out of range")

// IDSpace is implemented by tokenizer models: IDLimit returns one past the largest token id,
// including ids of added tokens. See hftokenizer.Model.
type IDSpace interface {
	IDLimit() int
}

// Table maps token ids to dense vectors.
// The weights are stored row-major: the vector for id is Weights[id*Dim : (id+1)*Dim].
type Table struct {
	Rows, Dim int
	Weights   []float32
}

// New creates a zero initialized table with rows vectors of dimension dim.
// It panics if rows or dim are negative.
func New(rows, dim int) *Table {
	if rows < 0 || dim < 0 {
		panic(fmt.Sprintf("embeddings.New: invalid shape [%d, %d]", rows, dim))
	}
	return &Table{Rows: rows, Dim: dim, Weights: make([]float32, rows*dim)}
}

// ForModel creates a zero initialized table with one row per id of the model.
func ForModel(m IDSpace, dim int) *Table {
	return New(m.IDLimit(), dim)
}

func (t *Table) checkID(id int) error {
	if id < 0 || id >= t.Rows {
		return errors.Wrapf(ErrOutOfRange, "id %d not in [0, %d)", id, t.Rows)
	}
	return nil
}

// Set copies vec as the vector for id.
func (t *Table) Set(id int, vec []float32) error {
	if err := t.checkID(id); err != nil {
		return err
	}
	if len(vec) != t.Dim {
		return errors.Wrapf(ErrOutOfRange, "vector of dimension %d for table of dimension %d", len(vec), t.Dim)
	}
	copy(t.Weights[id*t.Dim:], vec)
	return nil
}

// Vector returns the vector for id. It is a view into Weights, and changes to it are reflected in the table.
func (t *Table) Vector(id int) ([]float32, error) {
	if err := t.checkID(id); err != nil {
		return nil, err
	}
	start := id * t.Dim
	return t.Weights[start : start+t.Dim : start+t.Dim], nil
}

// Lookup returns a copy of the vectors for ids, concatenated in a [len(ids), Dim] row-major slice.
func (t *Table) Lookup(ids []int) ([]float32, error) {
	out := make([]float32, 0, len(ids)*t.Dim)
	for _, id := range ids {
		vec, err := t.Vector(id)
		if err != nil {
			return nil, err
		}
		out = append(out, vec...)
	}
	return out, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	return &Table{Rows: t.Rows, Dim: t.Dim, Weights: slices.Clone(t.Weights)}
}

// String implements fmt.Stringer.
func (t *Table) String() string {
	return fmt.Sprintf("embeddings.Table[%s x %d] (%s)", humanize.Comma(int64(t.Rows)), t.Dim,
		humanize.Bytes(uint64(len(t.Weights))*4))
}
