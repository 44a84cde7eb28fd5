package hftokenizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"unicode/utf8"

	"github.com/pepesi/go-huggingface/internal/files"
	"github.com/pkg/errors"
)

// Document is the raw parsed tree of a tokenizer.json file, with no schema interpretation.
//
// Values in the tree are one of map[string]any, []any, string, json.Number, bool or nil.
// Numbers are kept as json.Number so integer ids are never rounded through float64.
type Document struct {
	Root map[string]any

	// Size of the content parsed, in bytes.
	Size int
}

// Get returns the top-level value for key, and whether it is present.
// A key present with a JSON null value returns (nil, true).
func (d *Document) Get(key string) (any, bool) {
	v, found := d.Root[key]
	return v, found
}

// ParseDocument parses the content of a tokenizer.json file.
//
// It returns an error wrapping ErrMalformedInput if content is not a single well-formed JSON object,
// is not valid UTF-8, or has an object with a repeated key.
func ParseDocument(content []byte) (*Document, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, errors.Wrap(ErrMalformedInput, "empty content")
	}
	if !utf8.Valid(content) {
		return nil, errors.Wrap(ErrMalformedInput, "invalid UTF-8")
	}
	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.UseNumber()
	root, err := decodeTree(decoder, "")
	if err != nil {
		if errors.Is(err, ErrMalformedInput) {
			return nil, err
		}
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Wrapf(ErrMalformedInput, "%v", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(ErrMalformedInput, "unexpected content after the top-level JSON value")
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(ErrMalformedInput, "top-level value must be a JSON object, got %s", kindOf(root))
	}
	return &Document{Root: obj, Size: len(content)}, nil
}

// ReadDocument parses a tokenizer.json from the reader, until EOF.
func ReadDocument(r io.Reader) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read tokenizer.json content")
	}
	return ParseDocument(content)
}

// decodeTree reads the next JSON value from decoder, token by token.
// Unlike decoding into a map, a key repeated in the same object is an error instead of overwriting
// the previous value.
func decodeTree(decoder *json.Decoder, path string) (any, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := token.(json.Delim)
	if !ok {
		return token, nil
	}
	switch delim {
	case '{':
		obj := make(map[string]any)
		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyToken.(string)
			if !ok {
				return nil, errors.Wrapf(ErrMalformedInput, "object key at %q is not a string", path)
			}
			keyPath := key
			if path != "" {
				keyPath = path + "." + key
			}
			if _, found := obj[key]; found {
				return nil, errors.Wrapf(ErrMalformedInput, "duplicate key %q", keyPath)
			}
			if obj[key], err = decodeTree(decoder, keyPath); err != nil {
				return nil, err
			}
		}
		if _, err = decoder.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := make([]any, 0)
		for decoder.More() {
			value, err := decodeTree(decoder, fmt.Sprintf("%s[%d]", path, len(arr)))
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err = decoder.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, errors.Wrapf(ErrMalformedInput, "unexpected %q at %q", delim, path)
	}
}

// LoadDocument reads and parses the tokenizer.json file in filePath.
// A leading "~" in filePath is expanded to the user's home directory.
func LoadDocument(filePath string) (*Document, error) {
	content, err := files.Read(filePath)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(content)
	if err != nil {
		return nil, errors.WithMessagef(err, "read from file %q", filePath)
	}
	return doc, nil
}

// LoadDocumentFS reads and parses the tokenizer.json file name from the file system fsys.
func LoadDocumentFS(fsys fs.FS, name string) (*Document, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %q", name)
	}
	doc, err := ParseDocument(content)
	if err != nil {
		return nil, errors.WithMessagef(err, "read from file %q", name)
	}
	return doc, nil
}

// kindOf returns the JSON kind name of a value in a Document tree, used in error messages.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return "unknown"
	}
}
