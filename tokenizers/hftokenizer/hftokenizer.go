// Package hftokenizer loads HuggingFace's tokenizer.json format (the format of the "fast" tokenizers library)
// into an immutable Model: vocabulary, BPE merge table, added tokens, normalizer and pre-tokenizer.
//
// Loading happens in stages: the file is parsed into a generic Document, Validate checks the required keys,
// and independent builders (BuildVocabulary, BuildMerges, BuildAddedTokens, ResolveNormalizer and
// ResolvePreTokenizer) create the parts of the Model. Any failure aborts the load: there are no partially
// built models.
//
// Encoding text with the model is not part of this package.
package hftokenizer

import (
	"github.com/dustin/go-humanize"
	"github.com/pepesi/go-huggingface/hub"
	"github.com/pepesi/go-huggingface/tokenizers/api"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// TokenizerFileName is the name of the descriptor file in a HuggingFace repository.
const TokenizerFileName = "tokenizer.json"

// ParallelVocabThreshold is the vocabulary size above which the builders run in parallel, unless
// WithParallelBuild is given.
var ParallelVocabThreshold = 50_000

// Option configures the loading of a Model.
type Option func(o *options)

type options struct {
	parallel *bool
	markers  map[api.SpecialToken]string
}

// WithParallelBuild forces the independent builders to run concurrently (true) or sequentially (false).
// By default, they run concurrently for vocabularies larger than ParallelVocabThreshold.
func WithParallelBuild(parallel bool) Option {
	return func(o *options) { o.parallel = &parallel }
}

// WithSpecialTokenMarkers sets the content of special tokens to resolve, in addition to (and overriding)
// those given by the api.Config.
func WithSpecialTokenMarkers(markers map[api.SpecialToken]string) Option {
	return func(o *options) {
		for role, content := range markers {
			o.markers[role] = content
		}
	}
}

// New creates a Model from the "tokenizer.json" file of the HuggingFace repo (see hub.New).
// The config (usually from "tokenizer_config.json", see api.ParseConfigFile) may be nil.
func New(config *api.Config, repo *hub.Repo, opts ...Option) (*Model, error) {
	if !repo.HasFile(TokenizerFileName) {
		return nil, errors.Errorf("%q file not found in repo %q", TokenizerFileName, repo)
	}
	tokenizerFile, err := repo.DownloadFile(TokenizerFileName)
	if err != nil {
		return nil, errors.WithMessagef(err, "can't download %s file", TokenizerFileName)
	}
	return NewFromFile(config, tokenizerFile, opts...)
}

// NewFromFile creates a Model from a local tokenizer.json file path.
func NewFromFile(config *api.Config, filePath string, opts ...Option) (*Model, error) {
	doc, err := LoadDocument(filePath)
	if err != nil {
		return nil, err
	}
	m, err := NewFromDocument(config, doc, opts...)
	if err != nil {
		return nil, errors.WithMessagef(err, "while loading %q", filePath)
	}
	return m, nil
}

// NewFromContent creates a Model from tokenizer.json content.
func NewFromContent(config *api.Config, content []byte, opts ...Option) (*Model, error) {
	doc, err := ParseDocument(content)
	if err != nil {
		return nil, err
	}
	return NewFromDocument(config, doc, opts...)
}

// modelOptions holds the optional scalar fields of "model".
type modelOptions struct {
	ByteFallback            bool    `mapstructure:"byte_fallback"`
	IgnoreMerges            bool    `mapstructure:"ignore_merges"`
	FuseUnk                 bool    `mapstructure:"fuse_unk"`
	Dropout                 float64 `mapstructure:"dropout"`
	ContinuingSubwordPrefix string  `mapstructure:"continuing_subword_prefix"`
	EndOfWordSuffix         string  `mapstructure:"end_of_word_suffix"`
	UnkToken                string  `mapstructure:"unk_token"`
}

// parts holds the results of the independent builders: each builder writes only its own fields.
type parts struct {
	vocab        *Vocabulary
	merges       []MergeRule
	addedTokens  []AddedToken
	normalizer   Normalizer
	preTokenizer PreTokenizer
	modelOptions modelOptions
}

// NewFromDocument creates a Model from a parsed tokenizer.json document.
//
// The construction is atomic: if any part fails to build, it returns the error of the first failing part,
// in the order vocabulary, merges, added tokens, normalizer, pre-tokenizer, model options; regardless of
// whether the parts were built concurrently.
func NewFromDocument(config *api.Config, doc *Document, opts ...Option) (*Model, error) {
	o := &options{markers: config.SpecialTokenMarkers()}
	for _, opt := range opts {
		opt(o)
	}
	schema, err := Validate(doc)
	if err != nil {
		return nil, err
	}

	var p parts
	builders := []func() error{
		func() (err error) {
			p.vocab, err = BuildVocabulary(schema.Vocab)
			return
		},
		func() (err error) {
			p.merges, err = BuildMerges(schema.Merges)
			return
		},
		func() (err error) {
			p.addedTokens, err = BuildAddedTokens(schema.AddedTokens)
			return
		},
		func() (err error) {
			p.normalizer, err = ResolveNormalizer(schema.Normalizer)
			return
		},
		func() (err error) {
			p.preTokenizer, err = ResolvePreTokenizer(schema.PreTokenizer)
			return
		},
		func() error {
			return decodeModelOptions(schema.Model, &p.modelOptions)
		},
	}
	parallel := vocabSize(schema.Vocab) > ParallelVocabThreshold
	if o.parallel != nil {
		parallel = *o.parallel
	}
	if err = runBuilders(builders, parallel); err != nil {
		return nil, err
	}

	m := assemble(schema, &p)
	markers := o.markers
	if _, found := markers[api.TokUnknown]; !found && m.unkToken != "" {
		markers[api.TokUnknown] = m.unkToken
	}
	m.special = ResolveSpecialTokens(m.addedTokens, m.vocab, markers)

	if klog.V(1).Enabled() {
		klog.Infof("loaded %s tokenizer (%s): %s tokens, %s merges, %d added tokens, normalizer=%s, pre_tokenizer=%s",
			m.modelType, humanize.Bytes(uint64(doc.Size)), humanize.Comma(int64(m.TokenCount())),
			humanize.Comma(int64(len(m.merges))), len(m.addedTokens),
			m.normalizer.NormalizerType(), m.preTokenizer.PreTokenizerType())
	}
	return m, nil
}

// runBuilders runs all builders, and returns the error of the first failing one in slice order.
func runBuilders(builders []func() error, parallel bool) error {
	errs := make([]error, len(builders))
	if parallel {
		var g errgroup.Group
		for ii, build := range builders {
			g.Go(func() error {
				errs[ii] = build()
				return errs[ii]
			})
		}
		if g.Wait() == nil {
			return nil
		}
	} else {
		for ii, build := range builders {
			if errs[ii] = build(); errs[ii] != nil {
				break
			}
		}
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func decodeModelOptions(model map[string]any, mo *modelOptions) error {
	fields := make(map[string]any, len(model))
	for key, value := range model {
		if key != "vocab" && key != "merges" {
			fields[key] = value
		}
	}
	if err := decodeFields("model", fields, mo); err != nil {
		return err
	}
	if mo.Dropout < 0 || mo.Dropout > 1 {
		return schemaViolationf("model.dropout", "probability %g outside of [0, 1]", mo.Dropout)
	}
	return nil
}

func vocabSize(raw any) int {
	switch vocab := raw.(type) {
	case map[string]any:
		return len(vocab)
	case []any:
		return len(vocab)
	}
	return 0
}

// assemble creates the Model from the built parts.
func assemble(schema *Schema, p *parts) *Model {
	m := &Model{
		version:                 schema.Version,
		modelType:               schema.ModelType,
		vocab:                   p.vocab,
		merges:                  p.merges,
		byteFallback:            p.modelOptions.ByteFallback,
		ignoreMerges:            p.modelOptions.IgnoreMerges,
		fuseUnk:                 p.modelOptions.FuseUnk,
		dropout:                 p.modelOptions.Dropout,
		continuingSubwordPrefix: p.modelOptions.ContinuingSubwordPrefix,
		endOfWordSuffix:         p.modelOptions.EndOfWordSuffix,
		unkToken:                p.modelOptions.UnkToken,
		addedTokens:             p.addedTokens,
		addedByContent:          make(map[string]int, len(p.addedTokens)),
		addedByID:               make(map[int]int, len(p.addedTokens)),
		idLimit:                 p.vocab.IDLimit(),
		normalizer:              p.normalizer,
		preTokenizer:            p.preTokenizer,
	}
	for idx, token := range m.addedTokens {
		if _, found := m.addedByContent[token.Content]; !found {
			m.addedByContent[token.Content] = idx
		}
		if _, found := m.addedByID[token.ID]; !found {
			m.addedByID[token.ID] = idx
		}
		m.idLimit = max(m.idLimit, token.ID+1)
	}
	return m
}
