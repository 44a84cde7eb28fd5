// Package tokenizers creates tokenizer models from HuggingFace models.
//
// Given a HuggingFace repository (see hub.New), tokenizers will use its "tokenizer_config.json"
// and "tokenizer.json" to load an immutable hftokenizer.Model.
package tokenizers

import (
	"github.com/pepesi/go-huggingface/hub"
	"github.com/pepesi/go-huggingface/tokenizers/api"
	"github.com/pepesi/go-huggingface/tokenizers/hftokenizer"
)

// ConfigFileName is the name of the optional tokenizer configuration file in a HuggingFace repository.
const ConfigFileName = "tokenizer_config.json"

// Model is the read-only tokenizer model API.
type Model = api.Model

// SpecialToken is an enum of commonly used special tokens.
type SpecialToken = api.SpecialToken

const (
	TokBeginningOfSentence = api.TokBeginningOfSentence
	TokEndOfSentence       = api.TokEndOfSentence
	TokUnknown             = api.TokUnknown
	TokPad                 = api.TokPad
	TokMask                = api.TokMask
	TokClassification      = api.TokClassification
	TokSpecialTokensCount  = api.TokSpecialTokensCount
)

// Config struct to hold HuggingFace's tokenizer_config.json contents.
// There is no formal schema for this file, but these are some common fields that may be of use.
//
// The extra field ConfigFile holds the path to the file with the full config.
type Config = api.Config

// New loads the tokenizer model of the given HuggingFace repo (see hub.New).
//
// The "tokenizer_config.json" file is optional: if present, its special tokens (bos, eos, unk, ...) are
// resolved in the model. The "tokenizer.json" file is required.
func New(repo *hub.Repo, opts ...hftokenizer.Option) (*hftokenizer.Model, error) {
	err := repo.DownloadInfo(false)
	if err != nil {
		return nil, err
	}

	var config *api.Config
	if repo.HasFile(ConfigFileName) {
		config, err = GetConfig(repo)
		if err != nil {
			return nil, err
		}
	}
	return hftokenizer.New(config, repo, opts...)
}

// GetConfig returns the parsed "tokenizer_config.json" Config object for the repo.
func GetConfig(repo *hub.Repo) (*api.Config, error) {
	err := repo.DownloadInfo(false)
	if err != nil {
		return nil, err
	}
	localConfigFile, err := repo.DownloadFile(ConfigFileName)
	if err != nil {
		return nil, err
	}
	config, err := api.ParseConfigFile(localConfigFile)
	if err != nil {
		return nil, err
	}
	return config, nil
}
