package hftokenizer

import (
	"iter"
	"slices"

	"github.com/pepesi/go-huggingface/tokenizers/api"
	"github.com/pkg/errors"
)

// Model is the tokenizer model loaded from a tokenizer.json: vocabulary, BPE merges, added tokens,
// normalizer and pre-tokenizer.
//
// It is immutable once created (see NewFromDocument), and safe for concurrent use.
// It shares no memory with the Document it was built from. The slices returned by MergeRules and
// AddedTokens are copies and may be freely modified; the variants returned by Normalizer and
// PreTokenizer (their Sequence children and Unknown raw values) are shared and must not be modified.
type Model struct {
	version   string
	modelType string

	vocab  *Vocabulary
	merges []MergeRule

	byteFallback, ignoreMerges, fuseUnk bool
	dropout                             float64
	continuingSubwordPrefix             string
	endOfWordSuffix                     string
	unkToken                            string

	addedTokens    []AddedToken
	addedByContent map[string]int // content -> index in addedTokens
	addedByID      map[int]int    // id -> index in addedTokens
	idLimit        int

	normalizer   Normalizer
	preTokenizer PreTokenizer

	special map[api.SpecialToken]SpecialTokenRef
}

// Compile time assert that Model implements api.Model interface.
var _ api.Model = &Model{}

// Version of the tokenizer.json format, as declared in the document ("" if absent).
func (m *Model) Version() string { return m.version }

// ModelType returns the model family, "BPE" if the descriptor doesn't declare one.
func (m *Model) ModelType() string { return m.modelType }

// TokenCount returns the number of entries in the base vocabulary.
func (m *Model) TokenCount() int { return m.vocab.Len() }

// IDLimit returns one past the largest id used by the base vocabulary or by any added token.
// Tables indexed by token id (e.g. embeddings) need at least this many rows.
func (m *Model) IDLimit() int { return m.idLimit }

// Vocabulary returns the base vocabulary.
func (m *Model) Vocabulary() *Vocabulary { return m.vocab }

// TokenToID returns the id of token. The base vocabulary is searched first, then the added tokens.
// It returns an error wrapping ErrNotFound if the token is unknown.
func (m *Model) TokenToID(token string) (int, error) {
	if id, found := m.vocab.ID(token); found {
		return id, nil
	}
	if idx, found := m.addedByContent[token]; found {
		return m.addedTokens[idx].ID, nil
	}
	return 0, errors.Wrapf(ErrNotFound, "token %q", token)
}

// IDToToken returns the token for id. The base vocabulary is searched first, then the added tokens.
//
// It returns an error wrapping ErrOutOfRange if id is negative or >= IDLimit, and one wrapping ErrNotFound
// for ids within range that are not mapped (sparse numbering).
func (m *Model) IDToToken(id int) (string, error) {
	if id < 0 || id >= m.idLimit {
		return "", errors.Wrapf(ErrOutOfRange, "id %d not in [0, %d)", id, m.idLimit)
	}
	if token, found := m.vocab.Token(id); found {
		return token, nil
	}
	if idx, found := m.addedByID[id]; found {
		return m.addedTokens[idx].Content, nil
	}
	return "", errors.Wrapf(ErrNotFound, "id %d", id)
}

// NumMergeRules returns the number of BPE merge rules.
func (m *Model) NumMergeRules() int { return len(m.merges) }

// MergeRules returns the BPE merge rules ordered by rank.
func (m *Model) MergeRules() []MergeRule { return slices.Clone(m.merges) }

// AllMergeRules iterates over the merge rules in rank order, without copying them.
func (m *Model) AllMergeRules() iter.Seq2[int, MergeRule] {
	return func(yield func(int, MergeRule) bool) {
		for rank, rule := range m.merges {
			if !yield(rank, rule) {
				return
			}
		}
	}
}

// AddedTokens returns the added tokens, in the order of the descriptor.
func (m *Model) AddedTokens() []AddedToken { return slices.Clone(m.addedTokens) }

// Normalizer returns the resolved normalizer, NormalizerNone if there is none.
func (m *Model) Normalizer() Normalizer { return m.normalizer }

// PreTokenizer returns the resolved pre-tokenizer, PreTokenizerNone if there is none.
func (m *Model) PreTokenizer() PreTokenizer { return m.preTokenizer }

// ByteFallback returns whether unknown characters are encoded as their "<0xXX>" byte tokens.
func (m *Model) ByteFallback() bool { return m.byteFallback }

// IgnoreMerges returns whether words found in the vocabulary are used directly, without applying merges.
func (m *Model) IgnoreMerges() bool { return m.ignoreMerges }

// FuseUnk returns whether consecutive unknown tokens are fused into one.
func (m *Model) FuseUnk() bool { return m.fuseUnk }

// Dropout returns the BPE dropout probability, in [0, 1]. 0 if not set.
func (m *Model) Dropout() float64 { return m.dropout }

// ContinuingSubwordPrefix returns the prefix of tokens that continue a word (e.g. "##"), "" if none.
func (m *Model) ContinuingSubwordPrefix() string { return m.continuingSubwordPrefix }

// EndOfWordSuffix returns the suffix of tokens that end a word (e.g. "</w>"), "" if none.
func (m *Model) EndOfWordSuffix() string { return m.endOfWordSuffix }

// UnkToken returns the "model.unk_token" declared by the descriptor, "" if none.
func (m *Model) UnkToken() string { return m.unkToken }

// SpecialToken returns the token resolved for the role, if any.
func (m *Model) SpecialToken(role api.SpecialToken) (SpecialTokenRef, bool) {
	ref, found := m.special[role]
	return ref, found
}

// SpecialTokenID returns ID for given special token if registered, or an error wrapping ErrNotFound if not.
func (m *Model) SpecialTokenID(role api.SpecialToken) (int, error) {
	ref, found := m.special[role]
	if !found {
		return 0, errors.Wrapf(ErrNotFound, "special token %s not registered", role)
	}
	return ref.ID, nil
}
