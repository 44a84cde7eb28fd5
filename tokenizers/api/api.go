// Package api defines the read-only tokenizer model API and the types shared by the loaders.
// It's kept separate to break the cyclic dependency, and allow the users to import `tokenizers` and get the
// default implementations.
package api

// Model is the read-only view of a loaded tokenizer model, as consumed by an encoder/decoder.
//
// Implementations are immutable, and safe for concurrent use.
type Model interface {
	// ModelType returns the model family tag, e.g. "BPE".
	ModelType() string

	// TokenCount returns the number of entries in the base vocabulary.
	TokenCount() int

	// TokenToID returns the id of the token, or an error if it is not known.
	TokenToID(token string) (int, error)

	// IDToToken returns the token for the id, or an error if the id is out of range or not mapped.
	IDToToken(id int) (string, error)

	// SpecialTokenID returns ID for given special token if registered, or an error if not.
	SpecialTokenID(token SpecialToken) (int, error)
}

// SpecialToken is an enum of commonly used special tokens.
type SpecialToken int

const (
	TokBeginningOfSentence SpecialToken = iota
	TokEndOfSentence
	TokUnknown
	TokPad
	TokMask
	TokClassification
	TokSpecialTokensCount
)

var specialTokenNames = [TokSpecialTokensCount]string{
	"beginning_of_sentence", "end_of_sentence", "unknown", "pad", "mask", "classification",
}

// String implements fmt.Stringer.
func (t SpecialToken) String() string {
	if t < 0 || t >= TokSpecialTokensCount {
		return "invalid_special_token"
	}
	return specialTokenNames[t]
}

// SpecialTokens returns all valid SpecialToken values, in order.
func SpecialTokens() []SpecialToken {
	tokens := make([]SpecialToken, TokSpecialTokensCount)
	for ii := range tokens {
		tokens[ii] = SpecialToken(ii)
	}
	return tokens
}
