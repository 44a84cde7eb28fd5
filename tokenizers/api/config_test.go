package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigContent(t *testing.T) {
	config, err := ParseConfigContent([]byte(`{
		"tokenizer_class": "LlamaTokenizer",
		"model_max_length": 2048,
		"add_bos_token": true,
		"bos_token": {"__type": "AddedToken", "content": "<s>", "lstrip": false, "normalized": false},
		"eos_token": "</s>",
		"unk_token": {"content": "<unk>"},
		"pad_token": null,
		"additional_special_tokens": ["<extra_0>", {"content": "<extra_1>"}],
		"added_tokens_decoder": {"0": {"content": "<unk>", "special": true}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "LlamaTokenizer", config.TokenizerClass)
	assert.Equal(t, 2048.0, config.ModelMaxLength)
	assert.True(t, config.AddBosToken)
	assert.Equal(t, TokenContent("<s>"), config.BosToken)
	assert.Equal(t, TokenContent("</s>"), config.EosToken)
	assert.Equal(t, TokenContent("<unk>"), config.UnkToken)
	assert.Equal(t, TokenContent(""), config.PadToken)
	assert.Equal(t, []TokenContent{"<extra_0>", "<extra_1>"}, config.AdditionalSpecialTokens)
	assert.Equal(t, TokensDecoder{Content: "<unk>", Special: true}, config.AddedTokensDecoder[0])

	assert.Equal(t, map[SpecialToken]string{
		TokBeginningOfSentence: "<s>",
		TokEndOfSentence:       "</s>",
		TokUnknown:             "<unk>",
	}, config.SpecialTokenMarkers())

	_, err = ParseConfigContent([]byte(`{"bos_token": 1}`))
	assert.Error(t, err)
	_, err = ParseConfigContent([]byte(`{`))
	assert.Error(t, err)
}

func TestSpecialTokenMarkersNilConfig(t *testing.T) {
	var config *Config
	markers := config.SpecialTokenMarkers()
	assert.NotNil(t, markers)
	assert.Empty(t, markers)
}

func TestParseConfigFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "tokenizer_config.json")
	require.NoError(t, os.WriteFile(filePath, []byte(`{"cls_token": "[CLS]", "mask_token": "[MASK]"}`), 0o644))
	config, err := ParseConfigFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, filePath, config.ConfigFile)
	assert.Equal(t, map[SpecialToken]string{
		TokClassification: "[CLS]",
		TokMask:           "[MASK]",
	}, config.SpecialTokenMarkers())

	_, err = ParseConfigFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSpecialTokenString(t *testing.T) {
	assert.Equal(t, "beginning_of_sentence", TokBeginningOfSentence.String())
	assert.Equal(t, "classification", TokClassification.String())
	assert.Equal(t, "invalid_special_token", TokSpecialTokensCount.String())
	assert.Equal(t, "invalid_special_token", SpecialToken(-1).String())
	assert.Len(t, SpecialTokens(), int(TokSpecialTokensCount))
	assert.Equal(t, TokPad, SpecialTokens()[TokPad])
}
