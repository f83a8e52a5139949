// Package fs provides file-based output for compaction artifacts.
package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/marv1nnnnn/llmmin"
)

// CompactedFileName is the artifact file holding the compacted records.
const CompactedFileName = "llm-min.txt"

// RawFileName is the companion file holding the raw aggregated source.
const RawFileName = "llm-full.txt"

// Ensure Writer implements llmmin.ArtifactWriter at compile time.
var _ llmmin.ArtifactWriter = (*Writer)(nil)

// Writer writes artifacts under a base directory, one subdirectory per
// document. Files are staged in a temporary directory and moved into
// place atomically, so a failed write never leaves a partial artifact.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

func (w *Writer) tempDir(documentID string) string {
	return filepath.Join(w.baseDir, documentID+".tmp")
}

func (w *Writer) finalDir(documentID string) string {
	return filepath.Join(w.baseDir, documentID)
}

// WriteArtifact writes the artifact files for a document, replacing any
// prior artifact for the same document ID.
func (w *Writer) WriteArtifact(ctx context.Context, artifact *llmmin.Artifact) error {
	if artifact.DocumentID == "" {
		return llmmin.Errorf(llmmin.EINVALID, "artifact document ID required")
	}
	if artifact.Compacted == "" {
		return llmmin.Errorf(llmmin.EINVALID, "artifact content required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp := w.tempDir(artifact.DocumentID)
	if err := os.RemoveAll(tmp); err != nil {
		return err
	}
	if err := os.MkdirAll(tmp, 0755); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(tmp, CompactedFileName), []byte(artifact.Compacted), 0644); err != nil {
		os.RemoveAll(tmp)
		return err
	}
	if artifact.Raw != "" {
		if err := os.WriteFile(filepath.Join(tmp, RawFileName), []byte(artifact.Raw), 0644); err != nil {
			os.RemoveAll(tmp)
			return err
		}
	}

	final := w.finalDir(artifact.DocumentID)
	if err := os.RemoveAll(final); err != nil {
		os.RemoveAll(tmp)
		return err
	}
	if err := os.Rename(tmp, final); err != nil {
		os.RemoveAll(tmp)
		return err
	}

	return nil
}
