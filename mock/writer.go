package mock

import (
	"context"

	"github.com/marv1nnnnn/llmmin"
)

var _ llmmin.ArtifactWriter = (*ArtifactWriter)(nil)

// ArtifactWriter is a mock implementation of llmmin.ArtifactWriter.
type ArtifactWriter struct {
	WriteArtifactFn func(ctx context.Context, artifact *llmmin.Artifact) error
}

func (w *ArtifactWriter) WriteArtifact(ctx context.Context, artifact *llmmin.Artifact) error {
	return w.WriteArtifactFn(ctx, artifact)
}
