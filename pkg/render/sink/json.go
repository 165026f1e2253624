package sink

import (
	"context"

	"github.com/matzehuels/pedigree/pkg/export"
	"github.com/matzehuels/pedigree/pkg/graph"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// JSON is an [export.Renderer] writing the persisted document format. The
// descriptor is ignored: the whole document is written, including the
// viewport.
type JSON struct{}

// Render implements [export.Renderer].
func (JSON) Render(ctx context.Context, _ export.Descriptor, doc pedigree.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return graph.Marshal(doc)
}
