package hftokenizer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

// variantOf parses the JSON content of a normalizer or pre-tokenizer into its document tree.
func variantOf(t *testing.T, content string) any {
	t.Helper()
	doc := mustParse(t, `{"variant": `+content+`}`)
	return doc.Root["variant"]
}

func TestResolveNormalizer(t *testing.T) {
	testCases := []struct {
		content  string
		expected Normalizer
	}{
		{`null`, NormalizerNone{}},
		{`{"type": "NFC"}`, UnicodeNormalizer{Type: "NFC"}},
		{`{"type": "NFKD"}`, UnicodeNormalizer{Type: "NFKD"}},
		{`{"type": "Lowercase"}`, LowercaseNormalizer{}},
		{`{"type": "BertNormalizer", "clean_text": true, "handle_chinese_chars": true, "strip_accents": null, "lowercase": true}`,
			BertNormalizer{CleanText: true, HandleChineseChars: true, Lowercase: true}},
		{`{"type": "Strip", "strip_left": true, "strip_right": false}`, StripNormalizer{Left: true}},
		{`{"type": "Replace", "pattern": {"String": "▁"}, "content": " "}`,
			ReplaceNormalizer{Pattern: Pattern{String: "▁"}, Content: " "}},
		{`{"type": "Prepend", "prepend": "▁"}`, PrependNormalizer{Prepend: "▁"}},
		{`{"type": "Precompiled", "precompiled_charsmap": "ALQCAACEAAAA"}`, PrecompiledNormalizer{CharsMap: "ALQCAACEAAAA"}},
		{`{"type": "NewFancyNormalizer", "level": 3}`, NormalizerUnknown{
			Type: "NewFancyNormalizer", Raw: map[string]any{"type": "NewFancyNormalizer", "level": json.Number("3")}}},
		{`{"type": "Sequence", "normalizers": []}`, NormalizerSequence{Normalizers: []Normalizer{}}},
	}
	for _, tc := range testCases {
		n, err := ResolveNormalizer(variantOf(t, tc.content))
		require.NoErrorf(t, err, "normalizer %s", tc.content)
		assert.Equalf(t, tc.expected, n, "normalizer %s", tc.content)
	}
}

func TestResolveNormalizerSequence(t *testing.T) {
	raw := variantOf(t, `{"type": "Sequence", "normalizers": [
		{"type": "NFC"},
		{"type": "Sequence", "normalizers": [{"type": "NFD"}, {"type": "Unheard"}]}
	]}`)
	n, err := ResolveNormalizer(raw)
	require.NoError(t, err)
	seq, ok := n.(NormalizerSequence)
	require.True(t, ok)
	require.Len(t, seq.Normalizers, 2)
	assert.Equal(t, "NFC", seq.Normalizers[0].NormalizerType())
	assert.Equal(t, norm.NFC, seq.Normalizers[0].(UnicodeNormalizer).Form())

	inner, ok := seq.Normalizers[1].(NormalizerSequence)
	require.True(t, ok)
	require.Len(t, inner.Normalizers, 2)
	assert.Equal(t, UnicodeNormalizer{Type: "NFD"}, inner.Normalizers[0])
	assert.Equal(t, "Unheard", inner.Normalizers[1].NormalizerType())

	// Pure function of the input.
	again, err := ResolveNormalizer(raw)
	require.NoError(t, err)
	assert.Equal(t, n, again)
}

func TestUnknownVariantOwnsRaw(t *testing.T) {
	raw := variantOf(t, `{"type": "Fancy", "rules": [{"from": "a", "to": "b"}]}`)
	n, err := ResolveNormalizer(raw)
	require.NoError(t, err)
	p, err := ResolvePreTokenizer(raw)
	require.NoError(t, err)

	// Changing the document afterward doesn't change the resolved variants.
	obj := raw.(map[string]any)
	obj["type"] = "Changed"
	obj["rules"].([]any)[0].(map[string]any)["to"] = "c"

	expected := map[string]any{"type": "Fancy", "rules": []any{map[string]any{"from": "a", "to": "b"}}}
	assert.Equal(t, expected, n.(NormalizerUnknown).Raw)
	assert.Equal(t, expected, p.(PreTokenizerUnknown).Raw)
}

func TestResolveNormalizerInvalid(t *testing.T) {
	testCases := []struct {
		content string
		key     string
	}{
		{`"NFC"`, "normalizer"},
		{`{"lowercase": true}`, "normalizer.type"},
		{`{"type": 1}`, "normalizer.type"},
		{`{"type": "Sequence"}`, "normalizer.normalizers"},
		{`{"type": "Sequence", "normalizers": null}`, "normalizer.normalizers"},
		{`{"type": "Sequence", "normalizers": {}}`, "normalizer.normalizers"},
		{`{"type": "Sequence", "normalizers": [{"type": "NFC"}, []]}`, "normalizer.normalizers[1]"},
		{`{"type": "Strip", "strip_left": "yes"}`, "normalizer"},
	}
	for _, tc := range testCases {
		_, err := ResolveNormalizer(variantOf(t, tc.content))
		requireSchemaViolation(t, err, tc.key)
	}
}

func TestResolvePreTokenizer(t *testing.T) {
	testCases := []struct {
		content  string
		expected PreTokenizer
	}{
		{`null`, PreTokenizerNone{}},
		{`{"type": "ByteLevel", "add_prefix_space": false, "trim_offsets": true, "use_regex": true}`,
			ByteLevelPreTokenizer{TrimOffsets: true, UseRegex: true}},
		// Absent flags default to false.
		{`{"type": "ByteLevel"}`, ByteLevelPreTokenizer{}},
		{`{"type": "Whitespace"}`, WhitespacePreTokenizer{}},
		{`{"type": "BertPreTokenizer"}`, BertPreTokenizer{}},
		{`{"type": "Metaspace", "replacement": "▁", "prepend_scheme": "always", "split": true}`,
			MetaspacePreTokenizer{Replacement: "▁", PrependScheme: "always", Split: true}},
		{`{"type": "Split", "pattern": {"Regex": "\\s+"}, "behavior": "Isolated", "invert": false}`,
			SplitPreTokenizer{Pattern: Pattern{Regex: `\s+`}, Behavior: "Isolated"}},
		{`{"type": "Digits", "individual_digits": true}`, DigitsPreTokenizer{IndividualDigits: true}},
		{`{"type": "CharDelimiterSplit", "delimiter": "_"}`, CharDelimiterSplitPreTokenizer{Delimiter: "_"}},
		{`{"type": "Punctuation", "behavior": "Isolated"}`, PunctuationPreTokenizer{Behavior: "Isolated"}},
		{`{"type": "FromTheFuture"}`, PreTokenizerUnknown{Type: "FromTheFuture", Raw: map[string]any{"type": "FromTheFuture"}}},
	}
	for _, tc := range testCases {
		p, err := ResolvePreTokenizer(variantOf(t, tc.content))
		require.NoErrorf(t, err, "pre-tokenizer %s", tc.content)
		assert.Equalf(t, tc.expected, p, "pre-tokenizer %s", tc.content)
	}

	p, err := ResolvePreTokenizer(variantOf(t, `{"type": "Sequence", "pretokenizers": [
		{"type": "Split", "pattern": {"String": " "}, "behavior": "Removed"},
		{"type": "ByteLevel", "use_regex": false}
	]}`))
	require.NoError(t, err)
	seq, ok := p.(PreTokenizerSequence)
	require.True(t, ok)
	require.Len(t, seq.PreTokenizers, 2)
	split := seq.PreTokenizers[0].(SplitPreTokenizer)
	assert.False(t, split.Pattern.IsRegex())
	assert.Equal(t, " ", split.Pattern.String)
	assert.Equal(t, "ByteLevel", seq.PreTokenizers[1].PreTokenizerType())

	_, err = ResolvePreTokenizer(variantOf(t, `{"type": "Sequence", "pretokenizers": [{"type": "Digits"}, {}]}`))
	requireSchemaViolation(t, err, "pre_tokenizer.pretokenizers[1].type")

	_, err = ResolvePreTokenizer(variantOf(t, `{"type": "Sequence"}`))
	requireSchemaViolation(t, err, "pre_tokenizer.pretokenizers")
}
