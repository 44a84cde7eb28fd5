// Package hub can be used to download files from HuggingFace Hub, which may
// be models, tokenizers or anything.
//
// It shares the cache structure of the huggingFace_hub python library (usually under "~/.cache/huggingface/hub"),
// and files already in the cache are used without accessing the network.
package hub

import (
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SessionId is unique and always created anew at the start of the program, and used during the life of the program.
// It distinguishes the temporary files of concurrent programs downloading to the same cache.
var SessionId = strings.ReplaceAll(uuid.NewString(), "-", "")

var (
	// DefaultDirCreationPerm is used when creating new cache subdirectories.
	DefaultDirCreationPerm = os.FileMode(0755)

	// DefaultFileCreationPerm is used when creating files inside the cache subdirectories.
	DefaultFileCreationPerm = os.FileMode(0644)
)

func getEnvOr(key, defaultValue string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	return v
}

// fileExists returns true if file or directory exists.
func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// DefaultCacheDir for HuggingFace Hub, same used by the python library.
//
// Its prefix is either `${XDG_CACHE_HOME}` if set, or `~/.cache` otherwise. Followed by `/huggingface/hub/`.
// So typically: `~/.cache/huggingface/hub/`.
func DefaultCacheDir() string {
	cacheDir := getEnvOr("XDG_CACHE_HOME", path.Join(os.Getenv("HOME"), ".cache"))
	cacheDir = path.Join(cacheDir, "huggingface", "hub")
	return cacheDir
}

// RepoIdSeparator is used to separate repository/model names parts when mapping to file names.
// Likely only for internal use.
const RepoIdSeparator = "--"

// RepoType supported by HuggingFace-Hub
type RepoType string

const (
	RepoTypeDataset RepoType = "datasets"
	RepoTypeSpace   RepoType = "spaces"
	RepoTypeModel   RepoType = "models"
)
