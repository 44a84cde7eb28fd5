package api

import (
	"bytes"
	"encoding/json"

	"github.com/pepesi/go-huggingface/internal/files"
	"github.com/pkg/errors"
)

// TokenContent is the content of a special token in tokenizer_config.json.
//
// The file holds either a plain string ("<s>") or an AddedToken-like object ({"content": "<s>", ...});
// both unmarshal to the content string. A null value unmarshals to "".
type TokenContent string

// UnmarshalJSON implements json.Unmarshaler.
func (c *TokenContent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = TokenContent(s)
		return nil
	}
	var obj struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.Wrapf(err, "special token must be a string or an object with \"content\", got %s", data)
	}
	*c = TokenContent(obj.Content)
	return nil
}

type TokensDecoder struct {
	Content    string `json:"content"`
	Lstrip     bool   `json:"lstrip"`
	Normalized bool   `json:"normalized"`
	Rstrip     bool   `json:"rstrip"`
	SingleWord bool   `json:"single_word"`
	Special    bool   `json:"special"`
}

// Config struct to hold HuggingFace's tokenizer_config.json contents.
// There is no formal schema for this file, but these are some common fields that may be of use.
//
// The special token fields (BosToken, EosToken, ...) are the content markers used to resolve the
// roles of the tokens of a model, see Config.SpecialTokenMarkers.
//
// The extra field ConfigFile holds the path to the file with the full config.
type Config struct {
	ConfigFile     string
	TokenizerClass string `json:"tokenizer_class"`

	ChatTemplate string `json:"chat_template"`

	ModelMaxLength float64 `json:"model_max_length"`
	MaxLength      float64 `json:"max_length"`

	ClsToken  TokenContent `json:"cls_token"`
	UnkToken  TokenContent `json:"unk_token"`
	SepToken  TokenContent `json:"sep_token"`
	MaskToken TokenContent `json:"mask_token"`
	BosToken  TokenContent `json:"bos_token"`
	EosToken  TokenContent `json:"eos_token"`
	PadToken  TokenContent `json:"pad_token"`

	AddBosToken             bool                  `json:"add_bos_token"`
	AddEosToken             bool                  `json:"add_eos_token"`
	AddedTokensDecoder      map[int]TokensDecoder `json:"added_tokens_decoder"`
	AdditionalSpecialTokens []TokenContent        `json:"additional_special_tokens"`

	DoLowerCase               bool `json:"do_lower_case"`
	CleanUpTokenizationSpaces bool `json:"clean_up_tokenization_spaces"`

	NameOrPath string `json:"name_or_path"`

	TruncationSide string `json:"truncation_side"`
	PaddingSide    string `json:"padding_side"`
}

// SpecialTokenMarkers returns the content configured for each SpecialToken role.
// Roles without a configured content are omitted. It is safe to call on a nil Config.
func (c *Config) SpecialTokenMarkers() map[SpecialToken]string {
	markers := make(map[SpecialToken]string)
	if c == nil {
		return markers
	}
	for role, content := range map[SpecialToken]TokenContent{
		TokBeginningOfSentence: c.BosToken,
		TokEndOfSentence:       c.EosToken,
		TokUnknown:             c.UnkToken,
		TokPad:                 c.PadToken,
		TokMask:                c.MaskToken,
		TokClassification:      c.ClsToken,
	} {
		if content != "" {
			markers[role] = string(content)
		}
	}
	return markers
}

// ParseConfigFile parses the given file (holding a tokenizer_config.json file) into a Config structure.
func ParseConfigFile(filePath string) (*Config, error) {
	content, err := files.Read(filePath)
	if err != nil {
		return nil, err
	}
	config, err := ParseConfigContent(content)
	if err != nil {
		return nil, errors.WithMessagef(err, "read from file %q", filePath)
	}
	config.ConfigFile = filePath
	return config, nil
}

// ParseConfigContent parses the given json content (of a tokenizer_config.json file) into a Config structure.
func ParseConfigContent(jsonContent []byte) (*Config, error) {
	config := &Config{}
	err := json.Unmarshal(jsonContent, config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse tokenizer_config json content")
	}
	return config, nil
}
