package hub

import (
	"context"
	"iter"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// IterFileNames iterate over the file names stored in the repo.
// It doesn't trigger the downloading of the repo, only of the repo info.
func (r *Repo) IterFileNames() iter.Seq2[string, error] {
	// Download info and files.
	err := r.DownloadInfo(false)
	if err != nil {
		// Error downloading: yield error only.
		return func(yield func(string, error) bool) {
			yield("", err)
		}
	}
	return func(yield func(string, error) bool) {
		for _, si := range r.info.Siblings {
			fileName := si.Name
			if path.IsAbs(fileName) || strings.Contains(fileName, "..") {
				yield("", errors.Errorf("model %q contains illegal file name %q -- it cannot be an absolute path, nor contain \"..\"",
					r.ID, fileName))
				return
			}
			if !yield(fileName, nil) {
				return
			}
		}
	}
}

// cleanRelativeFilePath returns fileName as a relative path that can't escape its base directory,
// using the current OS separator.
func cleanRelativeFilePath(fileName string) string {
	cleaned := strings.TrimPrefix(path.Clean("/"+fileName), "/")
	if cleaned == "" {
		cleaned = "."
	}
	return filepath.FromSlash(cleaned)
}

// DownloadFiles downloads the repository files, and return the path to the downloaded files in the cache structure.
// The returned downloadPaths can be read, but shouldn't be modified, since there may be other programs using the same
// files.
//
// Files already in the cache are not downloaded again. At most MaxParallelDownload files are downloaded at a time.
func (r *Repo) DownloadFiles(fileNames ...string) (downloadedPaths []string, err error) {
	if len(fileNames) == 0 {
		return
	}
	snapshotsDir, err := r.repoSnapshotsDir()
	if err != nil {
		return nil, err
	}

	downloadedPaths = make([]string, len(fileNames))
	relativePaths := make([]string, len(fileNames))
	for ii, fileName := range fileNames {
		relativePaths[ii] = cleanRelativeFilePath(fileName)
		if relativePaths[ii] == "." {
			return nil, errors.Errorf("invalid file name %q to download from repo %q", fileName, r.ID)
		}
		downloadedPaths[ii] = filepath.Join(snapshotsDir, relativePaths[ii])
	}

	r.getDownloadManager() // Created before the goroutines share it.
	g, ctx := errgroup.WithContext(context.Background())
	if r.MaxParallelDownload > 0 {
		g.SetLimit(r.MaxParallelDownload)
	}
	for ii, fileName := range fileNames {
		if fileExists(downloadedPaths[ii]) {
			continue
		}
		g.Go(func() error {
			url, err := r.FileURL(filepath.ToSlash(relativePaths[ii]))
			if err != nil {
				return err
			}
			if r.Verbosity > 0 {
				klog.Infof("Downloading %q from %q", fileName, r.ID)
			}
			return r.lockedDownload(ctx, url, downloadedPaths[ii], false)
		})
	}
	if err = g.Wait(); err != nil {
		return nil, errors.WithMessagef(err, "while downloading files from repo %q", r.ID)
	}
	return downloadedPaths, nil
}

// DownloadFile is a shortcut to DownloadFiles with only one file.
func (r *Repo) DownloadFile(fileName string) (downloadedPath string, err error) {
	res, err := r.DownloadFiles(fileName)
	if err != nil {
		return "", err
	}
	return res[0], nil
}
