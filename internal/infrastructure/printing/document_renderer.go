package printing

import (
	"context"

	"github.com/venuedesk/backend/internal/application/effect"
)

// DocumentPDFRenderer turns document snapshots into PDFs. It binds a snapshot
// to its embedded HTML template and hands the result to an HTML renderer.
type DocumentPDFRenderer struct {
	engine   *TemplateEngine
	renderer HTMLRenderer
}

// NewDocumentPDFRenderer creates a renderer backed by the given HTML renderer
func NewDocumentPDFRenderer(renderer HTMLRenderer) (*DocumentPDFRenderer, error) {
	engine, err := NewTemplateEngine()
	if err != nil {
		return nil, err
	}
	return &DocumentPDFRenderer{
		engine:   engine,
		renderer: renderer,
	}, nil
}

// RenderPDF renders the snapshot's template and prints it to PDF
func (r *DocumentPDFRenderer) RenderPDF(ctx context.Context, snapshot effect.DocumentSnapshot) ([]byte, error) {
	name, ok := templateFor(snapshot.DocumentType)
	if !ok {
		return nil, NewRenderError(ErrCodeUnknownDocument,
			"no template for document type "+snapshot.DocumentType, nil)
	}

	html, err := r.engine.Render(name, snapshot)
	if err != nil {
		return nil, err
	}

	return r.renderer.Render(ctx, html, snapshot.Number)
}

// Ensure DocumentPDFRenderer implements DocumentRenderer
var _ effect.DocumentRenderer = (*DocumentPDFRenderer)(nil)
