package surface

import (
	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// addEngineFonts embeds the same Go faces the metrics provider measures
// with. Painting with any other family would break the width-containment
// guarantee the fit solver computed.
func addEngineFonts(pdf *fpdf.Fpdf) {
	pdf.AddUTF8FontFromBytes("Go", "", goregular.TTF)
	pdf.AddUTF8FontFromBytes("Go", "B", gobold.TTF)
}
