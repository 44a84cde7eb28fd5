package hftokenizer

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// MaxTokenID is the largest token id accepted in a vocabulary.
//
// The reverse mapping is a dense slice indexed by id: it costs about 17 bytes per id up to the largest
// one (a string header and a flag), so a vocabulary using ids near MaxTokenID takes over 1GB.
const MaxTokenID = 1<<26 - 1

// MaxSparseIDs is the number of unused ids (holes below the largest id) accepted in an object
// vocabulary. It bounds the memory of the reverse mapping by the number of tokens actually listed.
const MaxSparseIDs = 1 << 16

// Vocabulary is the bijection between token strings and integer ids of the base model.
//
// It is immutable after BuildVocabulary returns.
type Vocabulary struct {
	forward map[string]int

	// reverse is indexed by id, and has length max(id)+1. Ids not used (sparse numbering) hold "".
	reverse []string

	// mapped marks which entries of reverse are in use, since "" may itself be a valid token.
	mapped []bool
}

// Len returns the number of entries in the vocabulary.
func (v *Vocabulary) Len() int { return len(v.forward) }

// IDLimit returns one past the largest id in the vocabulary. It equals Len for densely numbered vocabularies.
func (v *Vocabulary) IDLimit() int { return len(v.reverse) }

// IsDense returns whether ids form exactly the range [0, Len).
func (v *Vocabulary) IsDense() bool { return len(v.reverse) == len(v.forward) }

// ID returns the id of token, and whether it is in the vocabulary.
func (v *Vocabulary) ID(token string) (int, bool) {
	id, found := v.forward[token]
	return id, found
}

// Token returns the token for id, and whether id is mapped.
func (v *Vocabulary) Token(id int) (string, bool) {
	if id < 0 || id >= len(v.reverse) || !v.mapped[id] {
		return "", false
	}
	return v.reverse[id], true
}

// BuildVocabulary builds the Vocabulary from the raw "model.vocab" value.
//
// The value is either an object mapping token to a non-negative integer id, or a Unigram style array
// of [token, score] pairs, where the id is the position in the array.
//
// Two tokens claiming the same id is a *VocabularyConflictError: the lowest conflicting id is reported.
func BuildVocabulary(raw any) (*Vocabulary, error) {
	switch vocab := raw.(type) {
	case map[string]any:
		return buildVocabularyFromObject(vocab)
	case []any:
		return buildVocabularyFromArray(vocab)
	case nil:
		return nil, missingKey("model.vocab")
	default:
		return nil, schemaViolationf("model.vocab", "expected an object, got %s", kindOf(raw))
	}
}

func buildVocabularyFromObject(vocab map[string]any) (*Vocabulary, error) {
	ids := make(map[string]int, len(vocab))
	maxID := -1
	for token, rawID := range vocab {
		id, err := tokenID(rawID)
		if err != nil {
			return nil, schemaViolationf("model.vocab", "token %q: %v", token, err)
		}
		ids[token] = id
		maxID = max(maxID, id)
	}
	if holes := maxID + 1 - len(ids); holes > MaxSparseIDs {
		return nil, schemaViolationf("model.vocab", "largest id %d for %d tokens leaves %d unused ids, more than the %d accepted",
			maxID, len(ids), holes, MaxSparseIDs)
	}

	v := &Vocabulary{
		forward: ids,
		reverse: make([]string, maxID+1),
		mapped:  make([]bool, maxID+1),
	}
	var conflict *VocabularyConflictError
	for token, id := range ids {
		if v.mapped[id] {
			if conflict == nil || id < conflict.ID {
				conflict = &VocabularyConflictError{ID: id, Tokens: []string{v.reverse[id], token}}
			} else if id == conflict.ID {
				conflict.Tokens = append(conflict.Tokens, token)
			}
			continue
		}
		v.reverse[id] = token
		v.mapped[id] = true
	}
	if conflict != nil {
		return nil, errors.WithStack(conflict)
	}
	return v, nil
}

func buildVocabularyFromArray(vocab []any) (*Vocabulary, error) {
	if len(vocab) > MaxTokenID+1 {
		return nil, schemaViolationf("model.vocab", "%d entries exceeds the maximum of %d", len(vocab), MaxTokenID+1)
	}
	v := &Vocabulary{
		forward: make(map[string]int, len(vocab)),
		reverse: make([]string, len(vocab)),
		mapped:  make([]bool, len(vocab)),
	}
	for id, rawEntry := range vocab {
		entry, ok := rawEntry.([]any)
		if !ok || len(entry) == 0 {
			return nil, schemaViolationf(fmt.Sprintf("model.vocab[%d]", id), "expected a [token, score] pair, got %s", kindOf(rawEntry))
		}
		token, ok := entry[0].(string)
		if !ok {
			return nil, schemaViolationf(fmt.Sprintf("model.vocab[%d]", id), "expected a string token, got %s", kindOf(entry[0]))
		}
		if previous, found := v.forward[token]; found {
			// Otherwise id `previous` would be unreachable from the forward mapping.
			return nil, schemaViolationf(fmt.Sprintf("model.vocab[%d]", id), "token %q already listed at position %d", token, previous)
		}
		v.forward[token] = id
		v.reverse[id] = token
		v.mapped[id] = true
	}
	return v, nil
}

// tokenID converts a raw id from the document tree to an int in [0, MaxTokenID].
func tokenID(raw any) (int, error) {
	number, ok := raw.(json.Number)
	if !ok {
		return 0, errors.Errorf("expected an integer id, got %s", kindOf(raw))
	}
	id, err := number.Int64()
	if err != nil {
		return 0, errors.Errorf("expected an integer id, got %s", number)
	}
	if id < 0 || id > MaxTokenID {
		return 0, errors.Errorf("id %d outside of the valid range [0, %d]", id, MaxTokenID)
	}
	return int(id), nil
}
