// Package file provides a filesystem-backed artefact store.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
)

// Ensure ArtefactStore implements the interface.
var _ driven.ArtefactStore = (*ArtefactStore)(nil)

// DefaultFileName is the artefact file name inside the data directory.
const DefaultFileName = "faq.md"

// ArtefactStore writes the normalised FAQ document to a markdown file
// and reads it back for indexing. The file is deterministic for a given
// document, so re-harvesting unchanged content rewrites identical bytes.
type ArtefactStore struct {
	path string
}

// NewArtefactStore creates an artefact store rooted at dataDir.
// If dataDir is empty, defaults to ~/.avenassist/data.
func NewArtefactStore(dataDir string) (*ArtefactStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".avenassist", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &ArtefactStore{
		path: filepath.Join(dataDir, DefaultFileName),
	}, nil
}

// Save writes the document's markdown form atomically: the content is
// written to a temp file and renamed into place so a concurrent watcher
// never reads a half-written artefact.
func (s *ArtefactStore) Save(ctx context.Context, doc *domain.FAQDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(doc.Markdown()), 0600); err != nil {
		return fmt.Errorf("writing artefact: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing artefact: %w", err)
	}
	return nil
}

// LoadMarkdown reads the serialised artefact back.
func (s *ArtefactStore) LoadMarkdown(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: no artefact at %s, run harvest first", domain.ErrNotFound, s.path)
	}
	if err != nil {
		return "", fmt.Errorf("reading artefact: %w", err)
	}
	return string(data), nil
}

// Path returns the artefact file path.
func (s *ArtefactStore) Path() string {
	return s.path
}
