package hftokenizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedInput is returned (wrapped) when the descriptor is not well-formed JSON.
	ErrMalformedInput = errors.New("malformed tokenizer.json input")

	// ErrNotFound is returned by queries on a Model for tokens or ids that are not mapped.
	ErrNotFound = errors.New("token not found")

	// ErrOutOfRange is returned by queries on a Model for ids outside the model's id space.
	ErrOutOfRange = errors.New("token id out of range")
)

// SchemaViolationError is returned when a required key is missing, or a key holds a value of the wrong kind.
//
// Key is the dotted path of the offending key, e.g. "model.vocab" or "added_tokens[3].id".
type SchemaViolationError struct {
	Key    string
	Reason string
}

func (e *SchemaViolationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("tokenizer.json schema violation at %q: required key missing", e.Key)
	}
	return fmt.Sprintf("tokenizer.json schema violation at %q: %s", e.Key, e.Reason)
}

// schemaViolationf creates a *SchemaViolationError with a formatted reason, and a stack trace attached.
func schemaViolationf(key, format string, args ...any) error {
	return errors.WithStack(&SchemaViolationError{Key: key, Reason: fmt.Sprintf(format, args...)})
}

// missingKey creates a *SchemaViolationError for a required key that is absent.
func missingKey(key string) error {
	return errors.WithStack(&SchemaViolationError{Key: key})
}

// VocabularyConflictError is returned when two distinct tokens of the vocabulary claim the same id.
type VocabularyConflictError struct {
	ID     int
	Tokens []string
}

func (e *VocabularyConflictError) Error() string {
	tokens := make([]string, len(e.Tokens))
	copy(tokens, e.Tokens)
	sort.Strings(tokens)
	quoted := make([]string, len(tokens))
	for ii, token := range tokens {
		quoted[ii] = fmt.Sprintf("%q", token)
	}
	return fmt.Sprintf("vocabulary conflict: id %d claimed by tokens %s", e.ID, strings.Join(quoted, ", "))
}

// MalformedMergeRuleError is returned when an entry of "merges" can't be split into two fragments.
type MalformedMergeRuleError struct {
	Index int
	Entry any
}

func (e *MalformedMergeRuleError) Error() string {
	return fmt.Sprintf("malformed merge rule #%d: %#v is not a pair of fragments", e.Index, e.Entry)
}
