package docx

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// embeddable lists the image formats Word renders inline.
var embeddable = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
}

// imageSize decodes only the image header.
func imageSize(data []byte) (width, height int, format string, ok bool) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", false
	}
	return cfg.Width, cfg.Height, format, true
}

// Embeddable reports whether an image of the given format can be placed in a
// .docx body.
func Embeddable(format string) bool {
	_, ok := embeddable[format]
	return ok
}

const (
	emuPerPixel = 9525
	// maxImageWidth is the usable A4 text width in EMU.
	maxImageWidth = 5731510
)

// extent returns the drawing extent in EMU, scaled down to the text width.
func extent(width, height int) (cx, cy int64) {
	if width <= 0 || height <= 0 {
		width, height = 400, 300
	}
	cx = int64(width) * emuPerPixel
	cy = int64(height) * emuPerPixel
	if cx > maxImageWidth {
		cy = cy * maxImageWidth / cx
		cx = maxImageWidth
	}
	return cx, cy
}
