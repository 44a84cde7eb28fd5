package hftokenizer

import (
	"fmt"
	"slices"

	"github.com/mitchellh/mapstructure"
	"github.com/pepesi/go-huggingface/tokenizers/api"
	"k8s.io/klog/v2"
)

// AddedToken is a token registered outside the base vocabulary ("added_tokens"), usually a special token.
//
// Its ID may extend the base vocabulary (ID >= vocabulary size) or alias one of its entries.
type AddedToken struct {
	ID         int    `mapstructure:"id"`
	Content    string `mapstructure:"content"`
	SingleWord bool   `mapstructure:"single_word"`
	LStrip     bool   `mapstructure:"lstrip"`
	RStrip     bool   `mapstructure:"rstrip"`
	Normalized bool   `mapstructure:"normalized"`
	Special    bool   `mapstructure:"special"`
}

// BuildAddedTokens builds the ordered list of added tokens from the raw "added_tokens" value.
//
// Each entry must have "id" and "content"; the boolean flags default to false when absent.
// A nil (absent or null) value yields an empty list.
func BuildAddedTokens(raw any) ([]AddedToken, error) {
	if raw == nil {
		return nil, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, schemaViolationf("added_tokens", "expected an array, got %s", kindOf(raw))
	}
	added := make([]AddedToken, 0, len(entries))
	for ii, rawEntry := range entries {
		key := fmt.Sprintf("added_tokens[%d]", ii)
		entry, ok := rawEntry.(map[string]any)
		if !ok {
			return nil, schemaViolationf(key, "expected an object, got %s", kindOf(rawEntry))
		}
		if content, found := entry["content"]; !found || content == nil {
			return nil, missingKey(key + ".content")
		}
		rawID, found := entry["id"]
		if !found {
			return nil, missingKey(key + ".id")
		}
		if _, err := tokenID(rawID); err != nil {
			return nil, schemaViolationf(key+".id", "%v", err)
		}
		var token AddedToken
		if err := decodeFields(key, entry, &token); err != nil {
			return nil, err
		}
		added = append(added, token)
	}
	return added, nil
}

// SpecialTokenRef is a token resolved for a special role, see ResolveSpecialTokens.
type SpecialTokenRef struct {
	ID      int
	Content string

	// Added is true if the token was found among the added tokens, false if in the base vocabulary.
	Added bool
}

// ResolveSpecialTokens resolves the tokens for the roles in markers, which maps a role to the content
// configured for it by the caller (usually from api.Config.SpecialTokenMarkers).
//
// Added tokens are scanned first, in order, and the first with matching content wins. If none matches,
// the base vocabulary (if not nil) is consulted. Roles that are not resolved are omitted.
// Roles are never guessed from a token's content alone.
func ResolveSpecialTokens(added []AddedToken, vocab *Vocabulary, markers map[api.SpecialToken]string) map[api.SpecialToken]SpecialTokenRef {
	resolved := make(map[api.SpecialToken]SpecialTokenRef, len(markers))
	for role, content := range markers {
		if content == "" {
			continue
		}
		ref, found := findAddedToken(added, content)
		if !found && vocab != nil {
			var id int
			if id, found = vocab.ID(content); found {
				ref = SpecialTokenRef{ID: id, Content: content}
			}
		}
		if !found {
			klog.V(2).Infof("special token %s with content %q not found in tokenizer", role, content)
			continue
		}
		resolved[role] = ref
	}
	return resolved
}

func findAddedToken(added []AddedToken, content string) (SpecialTokenRef, bool) {
	for _, token := range added {
		if token.Content == content {
			return SpecialTokenRef{ID: token.ID, Content: token.Content, Added: true}, true
		}
	}
	return SpecialTokenRef{}, false
}

// decodeFields decodes the recognized fields of the object into result (a pointer to a struct with
// `mapstructure` tags). Fields absent or null keep their zero value, unknown fields are ignored.
func decodeFields(key string, obj map[string]any, result any) error {
	var metadata mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: &metadata,
		Result:   result,
	})
	if err != nil {
		return schemaViolationf(key, "%v", err)
	}
	if err = decoder.Decode(obj); err != nil {
		return schemaViolationf(key, "%v", err)
	}
	if klog.V(2).Enabled() {
		unused := slices.DeleteFunc(metadata.Unused, func(field string) bool { return field == "type" })
		if len(unused) > 0 {
			klog.Infof("%s: ignoring unrecognized fields %v", key, unused)
		}
	}
	return nil
}
