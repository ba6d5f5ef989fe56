package render

import (
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
)

// WritePNG draws the same labels as the PDF onto a white image, one pixel
// per point.
func WritePNG(path string, labels []Label, page Page) error {
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to parse preview font")
	}

	dc := gg.NewContext(int(page.Width), int(page.Height))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: FontSize}))
	dc.SetRGB(0, 0, 0)
	for _, label := range labels {
		dc.DrawString(label.Text, label.X, page.Height-label.Y)
	}

	if err := dc.SavePNG(path); err != nil {
		return cerr.Field("path", path).Wrap(err).Error("Failed to write preview PNG")
	}

	return nil
}
