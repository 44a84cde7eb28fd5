package hftokenizer

import "k8s.io/klog/v2"

// PreTokenizer is the resolved "pre_tokenizer" of a tokenizer.json.
//
// Like Normalizer, it is a closed set of variants: PreTokenizerNone, PreTokenizerSequence,
// PreTokenizerUnknown, and one struct per known pre-tokenizer type.
type PreTokenizer interface {
	// PreTokenizerType returns the "type" name of the pre-tokenizer, or "None" for PreTokenizerNone.
	PreTokenizerType() string

	isPreTokenizer()
}

// PreTokenizerNone is the variant for a null or absent pre-tokenizer.
type PreTokenizerNone struct{}

// PreTokenizerSequence applies each of PreTokenizers in order.
type PreTokenizerSequence struct {
	PreTokenizers []PreTokenizer
}

// PreTokenizerUnknown is a pre-tokenizer whose type is not recognized. Raw holds the original object.
type PreTokenizerUnknown struct {
	Type string
	Raw  map[string]any
}

// BertPreTokenizer splits on whitespace and isolates each punctuation character.
type BertPreTokenizer struct{}

// ByteLevelPreTokenizer maps bytes to printable characters, as in GPT-2. With UseRegex it first splits the
// input using the GPT-2 pattern.
type ByteLevelPreTokenizer struct {
	AddPrefixSpace bool `mapstructure:"add_prefix_space"`
	TrimOffsets    bool `mapstructure:"trim_offsets"`
	UseRegex       bool `mapstructure:"use_regex"`
}

// CharDelimiterSplitPreTokenizer splits on Delimiter, which is removed.
type CharDelimiterSplitPreTokenizer struct {
	Delimiter string `mapstructure:"delimiter"`
}

// MetaspacePreTokenizer replaces spaces by Replacement (usually "▁"), and optionally splits on it.
// PrependScheme is one of "always", "first" or "never".
type MetaspacePreTokenizer struct {
	Replacement    string `mapstructure:"replacement"`
	PrependScheme  string `mapstructure:"prepend_scheme"`
	Split          bool   `mapstructure:"split"`
	AddPrefixSpace bool   `mapstructure:"add_prefix_space"`
}

// WhitespacePreTokenizer splits into runs of word characters and runs of punctuation, dropping whitespace.
type WhitespacePreTokenizer struct{}

// WhitespaceSplitPreTokenizer splits on whitespace only.
type WhitespaceSplitPreTokenizer struct{}

// SplitPreTokenizer splits on Pattern. Behavior is one of "Removed", "Isolated", "MergedWithPrevious",
// "MergedWithNext" or "Contiguous".
type SplitPreTokenizer struct {
	Pattern  Pattern `mapstructure:"pattern"`
	Behavior string  `mapstructure:"behavior"`
	Invert   bool    `mapstructure:"invert"`
}

// PunctuationPreTokenizer splits on punctuation characters, kept according to Behavior.
type PunctuationPreTokenizer struct {
	Behavior string `mapstructure:"behavior"`
}

// DigitsPreTokenizer separates digits from other characters, and with IndividualDigits each digit
// from the others.
type DigitsPreTokenizer struct {
	IndividualDigits bool `mapstructure:"individual_digits"`
}

// UnicodeScriptsPreTokenizer splits where the Unicode script of the characters changes.
type UnicodeScriptsPreTokenizer struct{}

func (PreTokenizerNone) PreTokenizerType() string               { return "None" }
func (PreTokenizerSequence) PreTokenizerType() string           { return "Sequence" }
func (p PreTokenizerUnknown) PreTokenizerType() string          { return p.Type }
func (BertPreTokenizer) PreTokenizerType() string               { return "BertPreTokenizer" }
func (ByteLevelPreTokenizer) PreTokenizerType() string          { return "ByteLevel" }
func (CharDelimiterSplitPreTokenizer) PreTokenizerType() string { return "CharDelimiterSplit" }
func (MetaspacePreTokenizer) PreTokenizerType() string          { return "Metaspace" }
func (WhitespacePreTokenizer) PreTokenizerType() string         { return "Whitespace" }
func (WhitespaceSplitPreTokenizer) PreTokenizerType() string    { return "WhitespaceSplit" }
func (SplitPreTokenizer) PreTokenizerType() string              { return "Split" }
func (PunctuationPreTokenizer) PreTokenizerType() string        { return "Punctuation" }
func (DigitsPreTokenizer) PreTokenizerType() string             { return "Digits" }
func (UnicodeScriptsPreTokenizer) PreTokenizerType() string     { return "UnicodeScripts" }

func (PreTokenizerNone) isPreTokenizer()               {}
func (PreTokenizerSequence) isPreTokenizer()           {}
func (PreTokenizerUnknown) isPreTokenizer()            {}
func (BertPreTokenizer) isPreTokenizer()               {}
func (ByteLevelPreTokenizer) isPreTokenizer()          {}
func (CharDelimiterSplitPreTokenizer) isPreTokenizer() {}
func (MetaspacePreTokenizer) isPreTokenizer()          {}
func (WhitespacePreTokenizer) isPreTokenizer()         {}
func (WhitespaceSplitPreTokenizer) isPreTokenizer()    {}
func (SplitPreTokenizer) isPreTokenizer()              {}
func (PunctuationPreTokenizer) isPreTokenizer()        {}
func (DigitsPreTokenizer) isPreTokenizer()             {}
func (UnicodeScriptsPreTokenizer) isPreTokenizer()     {}

var knownPreTokenizers = map[string]func(key string, obj map[string]any) (PreTokenizer, error){
	"BertPreTokenizer":   decodePreTokenizer[BertPreTokenizer],
	"ByteLevel":          decodePreTokenizer[ByteLevelPreTokenizer],
	"CharDelimiterSplit": decodePreTokenizer[CharDelimiterSplitPreTokenizer],
	"Metaspace":          decodePreTokenizer[MetaspacePreTokenizer],
	"Whitespace":         decodePreTokenizer[WhitespacePreTokenizer],
	"WhitespaceSplit":    decodePreTokenizer[WhitespaceSplitPreTokenizer],
	"Split":              decodePreTokenizer[SplitPreTokenizer],
	"Punctuation":        decodePreTokenizer[PunctuationPreTokenizer],
	"Digits":             decodePreTokenizer[DigitsPreTokenizer],
	"UnicodeScripts":     decodePreTokenizer[UnicodeScriptsPreTokenizer],
}

func decodePreTokenizer[T PreTokenizer](key string, obj map[string]any) (PreTokenizer, error) {
	var p T
	if err := decodeFields(key, obj, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// ResolvePreTokenizer converts the raw "pre_tokenizer" value to its PreTokenizer variant.
//
// Same rules as ResolveNormalizer, with the children of a "Sequence" under "pretokenizers".
func ResolvePreTokenizer(raw any) (PreTokenizer, error) {
	return resolvePreTokenizer("pre_tokenizer", raw)
}

func resolvePreTokenizer(key string, raw any) (PreTokenizer, error) {
	obj, typeName, isNull, err := variantObject(key, raw)
	if err != nil {
		return nil, err
	}
	if isNull {
		return PreTokenizerNone{}, nil
	}
	if typeName == "Sequence" {
		children, err := variantChildren(key, obj, "pretokenizers")
		if err != nil {
			return nil, err
		}
		seq := PreTokenizerSequence{PreTokenizers: make([]PreTokenizer, len(children))}
		for ii, child := range children {
			seq.PreTokenizers[ii], err = resolvePreTokenizer(childKey(key, "pretokenizers", ii), child)
			if err != nil {
				return nil, err
			}
		}
		return seq, nil
	}
	decode, found := knownPreTokenizers[typeName]
	if !found {
		klog.V(2).Infof("%s: unknown type %q kept as raw value", key, typeName)
		return PreTokenizerUnknown{Type: typeName, Raw: cloneObject(obj)}, nil
	}
	return decode(key, obj)
}
