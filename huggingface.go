// Package huggingface only holds the version of the set of tools to load HuggingFace tokenizers in Go.
//
// There are 3 main sub-packages:
//
//   - hub: to download files from HuggingFace Hub, be it model files, tokenizers, data, etc.
//   - tokenizers: to load tokenizer models (tokenizer.json) from downloaded HuggingFace models.
//   - embeddings: caller owned embedding tables sized for a loaded tokenizer model.
package huggingface

// Version of the library.
// Manually kept in sync with project releases.
var Version = "v0.1.0-dev"
