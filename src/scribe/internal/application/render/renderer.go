package render

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/notation"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
)

type Result struct {
	PDFPath    string
	PNGPath    string
	LabelCount int
}

type Renderer struct {
	page    Page
	preview bool
}

func NewRenderer(page Page, preview bool) Renderer {
	return Renderer{
		page:    page,
		preview: preview,
	}
}

// RenderFile parses the score from disk and writes the PDF, plus a PNG next
// to it when previews are on.
func (r Renderer) RenderFile(ctx context.Context, xmlPath string, pdfPath string) (Result, error) {
	errctx := cerr.Fields(cerr.F{
		"xml_path": xmlPath,
		"pdf_path": pdfPath,
	})

	if ctx.Err() != nil {
		return Result{}, errctx.Wrap(ctx.Err()).Error("Context cancelled before rendering")
	}

	stream, err := notation.ReadMusicXML(xmlPath)
	if err != nil {
		return Result{}, errctx.Wrap(err).Error("Failed to read score")
	}

	labels := Layout(stream.Flatten(), r.page)

	if err := WritePDFFile(pdfPath, labels, r.page); err != nil {
		return Result{}, errctx.Wrap(err).Error("Failed to render PDF")
	}

	log.Infof("PDF file saved: %s", pdfPath)

	result := Result{
		PDFPath:    pdfPath,
		LabelCount: len(labels),
	}

	if r.preview {
		pngPath := PreviewPath(pdfPath)
		if err := WritePNG(pngPath, labels, r.page); err != nil {
			return Result{}, errctx.Wrap(err).Error("Failed to render preview")
		}
		result.PNGPath = pngPath
	}

	return result, nil
}

func PreviewPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".png"
}
