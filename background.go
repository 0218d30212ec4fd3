package manifest

import (
	"fmt"
	"os"

	"github.com/phpdave11/gofpdi"
)

// pdfPointToPx converts PDF points (72/inch) to canvas pixels (96/inch).
const pdfPointToPx = 96.0 / 72.0

// DetectCanvas probes the first page of a PDF background and returns its
// MediaBox as canvas pixels. Templates built on top of an existing customs
// form are usually traced over the form's PDF; declaring the canvas
// zero-sized and letting the loader fill it from the PDF keeps the two in
// sync.
//
// gofpdi signals malformed input by panicking, so the probe recovers and
// reports a regular error.
func DetectCanvas(path string) (c Canvas, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newRenderError("DetectCanvas", fmt.Errorf("reading %s: %v", path, r))
		}
	}()

	if _, statErr := os.Stat(path); statErr != nil {
		return Canvas{}, newRenderError("DetectCanvas", fmt.Errorf("%w: %v", ErrNoBackground, statErr))
	}

	imp := gofpdi.NewImporter()
	imp.SetSourceFile(path)
	imp.ImportPage(1, "/MediaBox")

	sizes := imp.GetPageSizes()
	dims, ok := sizes[1]
	if !ok {
		return Canvas{}, newRenderError("DetectCanvas", fmt.Errorf("no page size in %s", path))
	}
	mb, ok := dims["/MediaBox"]
	if !ok || mb["w"] <= 0 || mb["h"] <= 0 {
		return Canvas{}, newRenderError("DetectCanvas", fmt.Errorf("no usable MediaBox in %s", path))
	}

	return Canvas{
		WidthPx:  mb["w"] * pdfPointToPx,
		HeightPx: mb["h"] * pdfPointToPx,
	}, nil
}
