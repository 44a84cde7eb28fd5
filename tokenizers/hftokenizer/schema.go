package hftokenizer

// DefaultModelType is used when "model.type" is absent or null.
const DefaultModelType = "BPE"

// Schema holds the sections of a Document located by Validate, still in their raw (tree) form.
//
// Optional sections that are absent hold nil.
type Schema struct {
	Version string

	// Model is the "model" object, and ModelType its "type" (or DefaultModelType).
	Model     map[string]any
	ModelType string

	Vocab  any
	Merges any

	AddedTokens  any
	Normalizer   any
	PreTokenizer any
}

// Validate confirms the presence of the mandatory top-level and "model" keys of the document.
//
// "model" and "model.vocab" are always required. "model.merges" is required only for BPE models
// (when "model.type" is absent or "BPE"). It returns a *SchemaViolationError naming the first
// offending key otherwise.
func Validate(doc *Document) (*Schema, error) {
	rawModel, found := doc.Get("model")
	if !found {
		return nil, missingKey("model")
	}
	model, ok := rawModel.(map[string]any)
	if !ok {
		return nil, schemaViolationf("model", "expected an object, got %s", kindOf(rawModel))
	}

	s := &Schema{Model: model, ModelType: DefaultModelType}
	if v, found := doc.Get("version"); found && v != nil {
		version, ok := v.(string)
		if !ok {
			return nil, schemaViolationf("version", "expected a string, got %s", kindOf(v))
		}
		s.Version = version
	}
	if v, found := model["type"]; found && v != nil {
		modelType, ok := v.(string)
		if !ok {
			return nil, schemaViolationf("model.type", "expected a string, got %s", kindOf(v))
		}
		s.ModelType = modelType
	}

	if s.Vocab, found = model["vocab"]; !found || s.Vocab == nil {
		return nil, missingKey("model.vocab")
	}
	if s.Merges, found = model["merges"]; (!found || s.Merges == nil) && s.ModelType == DefaultModelType {
		return nil, missingKey("model.merges")
	}

	s.AddedTokens, _ = doc.Get("added_tokens")
	s.Normalizer, _ = doc.Get("normalizer")
	s.PreTokenizer, _ = doc.Get("pre_tokenizer")
	return s, nil
}
