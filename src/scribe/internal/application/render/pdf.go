package render

import (
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
)

func newPDF(labels []Label, page Page) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", FontSize)

	for _, label := range labels {
		// fpdf measures y down from the top edge
		pdf.Text(label.X, page.Height-label.Y, label.Text)
	}

	return pdf
}

func WritePDF(w io.Writer, labels []Label, page Page) error {
	pdf := newPDF(labels, page)
	if err := pdf.Output(w); err != nil {
		return cerr.Wrap(err).Error("Failed to write PDF")
	}

	return nil
}

func WritePDFFile(path string, labels []Label, page Page) error {
	pdf := newPDF(labels, page)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return cerr.Field("path", path).Wrap(err).Error("Failed to write PDF file")
	}

	return nil
}
