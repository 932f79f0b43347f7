package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadErrorKind distinguishes the failure classes the error panel and the
// log need to tell apart.
type LoadErrorKind string

const (
	KindManifestFetch LoadErrorKind = "manifest fetch"
	KindManifestShape LoadErrorKind = "manifest shape"
	KindManifestEmpty LoadErrorKind = "manifest empty"
	KindDatasetFetch  LoadErrorKind = "dataset fetch"
	KindDatasetShape  LoadErrorKind = "dataset shape"
)

// LoadError carries the failing path so the error panel can show exactly
// what was attempted.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s error for %s: %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Source locates the manifest and the weekly data files. Both may be local
// paths or http(s) URLs; dataset filenames from the manifest are joined onto
// Data verbatim.
type Source struct {
	Manifest string
	Data     string
}

func isHTTPSource(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// DatasetPath joins a manifest filename onto the data base.
func (s Source) DatasetPath(filename string) string {
	if isHTTPSource(s.Data) {
		return strings.TrimRight(s.Data, "/") + "/" + filename
	}
	return filepath.Join(s.Data, filename)
}

// fetchRaw reads the bytes at path, over HTTP for http(s) URLs and from disk
// otherwise. A non-2xx response is a fetch failure.
func fetchRaw(path string) ([]byte, error) {
	if !isHTTPSource(path) {
		return os.ReadFile(path)
	}
	resp, err := externalHTTPClient.Get(path)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// LoadManifest fetches the list of weekly dataset filenames. The manifest is
// either a bare JSON list of strings or an object with a "files" list; any
// other shape is rejected, and an empty list is its own error so the
// dashboard never initializes against nothing.
func LoadManifest(src Source) ([]string, error) {
	raw, err := fetchRaw(src.Manifest)
	if err != nil {
		return nil, &LoadError{Kind: KindManifestFetch, Path: src.Manifest, Err: err}
	}
	if !json.Valid(raw) {
		return nil, &LoadError{Kind: KindManifestFetch, Path: src.Manifest, Err: fmt.Errorf("malformed JSON")}
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		var wrapped struct {
			Files []string `json:"files"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped.Files == nil {
			return nil, &LoadError{
				Kind: KindManifestShape,
				Path: src.Manifest,
				Err:  fmt.Errorf("expected a list of filenames or an object with a \"files\" list"),
			}
		}
		names = wrapped.Files
	}
	if len(names) == 0 {
		return nil, &LoadError{Kind: KindManifestEmpty, Path: src.Manifest, Err: fmt.Errorf("manifest lists no data files")}
	}
	return names, nil
}

// LoadDataset fetches one week's records. A payload holding a single record
// object instead of a list is normalized to a one-element list; a
// single-record week is valid input.
func LoadDataset(src Source, filename string) ([]Record, error) {
	path := src.DatasetPath(filename)
	raw, err := fetchRaw(path)
	if err != nil {
		return nil, &LoadError{Kind: KindDatasetFetch, Path: path, Err: err}
	}
	if !json.Valid(raw) {
		return nil, &LoadError{Kind: KindDatasetFetch, Path: path, Err: fmt.Errorf("malformed JSON")}
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		var single Record
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, &LoadError{
				Kind: KindDatasetShape,
				Path: path,
				Err:  fmt.Errorf("expected a list of records or a single record object"),
			}
		}
		records = []Record{single}
	}
	return records, nil
}
