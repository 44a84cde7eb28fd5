package hftokenizer

import (
	"strings"

	"github.com/pkg/errors"
)

// MergeRule is one BPE merge: Left and Right fragments are merged into Merged.
//
// Rank is the position of the rule in the descriptor "merges" list: lower ranks are merged first.
type MergeRule struct {
	Left, Right string
	Merged      string
	Rank        int
}

// BuildMerges builds the ordered list of merge rules from the raw "model.merges" value.
//
// Each entry is either a string "left right", split on its first ASCII space (U+0020), or a two-element
// array ["left", "right"]. Only U+0020 separates: other whitespace, like a tab or newline, is part of the
// fragments, since byte-level and SentencePiece vocabularies can hold them in tokens. Entries that don't yield two non-empty fragments return a *MalformedMergeRuleError.
// A nil raw value (merges absent for non-BPE models) yields an empty list.
//
// Order is preserved exactly: rule i has Rank i.
func BuildMerges(raw any) ([]MergeRule, error) {
	if raw == nil {
		return nil, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, schemaViolationf("model.merges", "expected an array, got %s", kindOf(raw))
	}
	merges := make([]MergeRule, len(entries))
	for rank, entry := range entries {
		left, right, ok := splitMerge(entry)
		if !ok {
			return nil, errors.WithStack(&MalformedMergeRuleError{Index: rank, Entry: entry})
		}
		merges[rank] = MergeRule{Left: left, Right: right, Merged: left + right, Rank: rank}
	}
	return merges, nil
}

func splitMerge(entry any) (left, right string, ok bool) {
	switch e := entry.(type) {
	case string:
		left, right, ok = strings.Cut(e, " ")
	case []any:
		if len(e) != 2 {
			return "", "", false
		}
		var okLeft, okRight bool
		left, okLeft = e[0].(string)
		right, okRight = e[1].(string)
		ok = okLeft && okRight
	}
	if left == "" || right == "" {
		ok = false
	}
	return
}
