package hftokenizer

import (
	"golang.org/x/text/unicode/norm"
	"k8s.io/klog/v2"
)

// Normalizer is the resolved "normalizer" of a tokenizer.json.
//
// It is a closed set of variants: NormalizerNone, NormalizerSequence, NormalizerUnknown, and one struct per
// known normalizer type. Use a type switch to handle them.
type Normalizer interface {
	// NormalizerType returns the "type" name of the normalizer, or "None" for NormalizerNone.
	NormalizerType() string

	isNormalizer()
}

// NormalizerNone is the variant for a null or absent normalizer.
type NormalizerNone struct{}

// NormalizerSequence applies each of Normalizers in order.
type NormalizerSequence struct {
	Normalizers []Normalizer
}

// NormalizerUnknown is a normalizer whose type is not recognized. Raw holds the original object.
type NormalizerUnknown struct {
	Type string
	Raw  map[string]any
}

// BertNormalizer is the BERT normalization: control character cleanup, spacing around CJK characters,
// accent stripping and lowercasing, each enabled by its flag.
type BertNormalizer struct {
	CleanText          bool `mapstructure:"clean_text"`
	HandleChineseChars bool `mapstructure:"handle_chinese_chars"`
	StripAccents       bool `mapstructure:"strip_accents"`
	Lowercase          bool `mapstructure:"lowercase"`
}

// StripNormalizer removes whitespace from the left and/or right of the input.
type StripNormalizer struct {
	Left  bool `mapstructure:"strip_left"`
	Right bool `mapstructure:"strip_right"`
}

// StripAccentsNormalizer removes combining marks. Usually follows an NFD normalizer.
type StripAccentsNormalizer struct{}

// UnicodeNormalizer is one of the "NFC", "NFD", "NFKC" or "NFKD" normalizers, given by Type.
type UnicodeNormalizer struct {
	Type string `mapstructure:"type"`
}

// Form returns the golang.org/x/text normalization form that implements the normalizer.
func (n UnicodeNormalizer) Form() norm.Form {
	return unicodeForms[n.Type]
}

var unicodeForms = map[string]norm.Form{
	"NFC":  norm.NFC,
	"NFD":  norm.NFD,
	"NFKC": norm.NFKC,
	"NFKD": norm.NFKD,
}

// LowercaseNormalizer maps the input to lower case.
type LowercaseNormalizer struct{}

// NmtNormalizer removes control characters and maps some spaces as done by the NMT models.
type NmtNormalizer struct{}

// PrecompiledNormalizer holds the base64 encoded SentencePiece normalization map.
type PrecompiledNormalizer struct {
	CharsMap string `mapstructure:"precompiled_charsmap"`
}

// ReplaceNormalizer replaces every match of Pattern by Content.
type ReplaceNormalizer struct {
	Pattern Pattern `mapstructure:"pattern"`
	Content string  `mapstructure:"content"`
}

// PrependNormalizer prepends Prepend to non-empty inputs.
type PrependNormalizer struct {
	Prepend string `mapstructure:"prepend"`
}

// ByteLevelNormalizer maps each byte of the input to a printable character, as in GPT-2.
type ByteLevelNormalizer struct{}

func (NormalizerNone) NormalizerType() string         { return "None" }
func (NormalizerSequence) NormalizerType() string     { return "Sequence" }
func (n NormalizerUnknown) NormalizerType() string    { return n.Type }
func (BertNormalizer) NormalizerType() string         { return "BertNormalizer" }
func (StripNormalizer) NormalizerType() string        { return "Strip" }
func (StripAccentsNormalizer) NormalizerType() string { return "StripAccents" }
func (n UnicodeNormalizer) NormalizerType() string    { return n.Type }
func (LowercaseNormalizer) NormalizerType() string    { return "Lowercase" }
func (NmtNormalizer) NormalizerType() string          { return "Nmt" }
func (PrecompiledNormalizer) NormalizerType() string  { return "Precompiled" }
func (ReplaceNormalizer) NormalizerType() string      { return "Replace" }
func (PrependNormalizer) NormalizerType() string      { return "Prepend" }
func (ByteLevelNormalizer) NormalizerType() string    { return "ByteLevel" }

func (NormalizerNone) isNormalizer()         {}
func (NormalizerSequence) isNormalizer()     {}
func (NormalizerUnknown) isNormalizer()      {}
func (BertNormalizer) isNormalizer()         {}
func (StripNormalizer) isNormalizer()        {}
func (StripAccentsNormalizer) isNormalizer() {}
func (UnicodeNormalizer) isNormalizer()      {}
func (LowercaseNormalizer) isNormalizer()    {}
func (NmtNormalizer) isNormalizer()          {}
func (PrecompiledNormalizer) isNormalizer()  {}
func (ReplaceNormalizer) isNormalizer()      {}
func (PrependNormalizer) isNormalizer()      {}
func (ByteLevelNormalizer) isNormalizer()    {}

// knownNormalizers maps the "type" of each known (non-Sequence) normalizer to its decoder.
var knownNormalizers = map[string]func(key string, obj map[string]any) (Normalizer, error){
	"BertNormalizer": decodeNormalizer[BertNormalizer],
	"Strip":          decodeNormalizer[StripNormalizer],
	"StripAccents":   decodeNormalizer[StripAccentsNormalizer],
	"NFC":            decodeNormalizer[UnicodeNormalizer],
	"NFD":            decodeNormalizer[UnicodeNormalizer],
	"NFKC":           decodeNormalizer[UnicodeNormalizer],
	"NFKD":           decodeNormalizer[UnicodeNormalizer],
	"Lowercase":      decodeNormalizer[LowercaseNormalizer],
	"Nmt":            decodeNormalizer[NmtNormalizer],
	"Precompiled":    decodeNormalizer[PrecompiledNormalizer],
	"Replace":        decodeNormalizer[ReplaceNormalizer],
	"Prepend":        decodeNormalizer[PrependNormalizer],
	"ByteLevel":      decodeNormalizer[ByteLevelNormalizer],
}

func decodeNormalizer[T Normalizer](key string, obj map[string]any) (Normalizer, error) {
	var n T
	if err := decodeFields(key, obj, &n); err != nil {
		return nil, err
	}
	return n, nil
}

// ResolveNormalizer converts the raw "normalizer" value to its Normalizer variant.
//
// A nil value resolves to NormalizerNone, a "Sequence" recursively resolves its "normalizers" in order,
// and an unrecognized type resolves to NormalizerUnknown. It is a pure function of raw.
func ResolveNormalizer(raw any) (Normalizer, error) {
	return resolveNormalizer("normalizer", raw)
}

func resolveNormalizer(key string, raw any) (Normalizer, error) {
	obj, typeName, isNull, err := variantObject(key, raw)
	if err != nil {
		return nil, err
	}
	if isNull {
		return NormalizerNone{}, nil
	}
	if typeName == "Sequence" {
		children, err := variantChildren(key, obj, "normalizers")
		if err != nil {
			return nil, err
		}
		seq := NormalizerSequence{Normalizers: make([]Normalizer, len(children))}
		for ii, child := range children {
			seq.Normalizers[ii], err = resolveNormalizer(childKey(key, "normalizers", ii), child)
			if err != nil {
				return nil, err
			}
		}
		return seq, nil
	}
	decode, found := knownNormalizers[typeName]
	if !found {
		klog.V(2).Infof("%s: unknown type %q kept as raw value", key, typeName)
		return NormalizerUnknown{Type: typeName, Raw: cloneObject(obj)}, nil
	}
	return decode(key, obj)
}
