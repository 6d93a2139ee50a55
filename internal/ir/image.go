package ir

import "strings"

// ImageBlock is an embedded picture and its bytes.
type ImageBlock struct {
	ID       string `json:"id"`                  // relationship or media id
	Path     string `json:"path,omitempty"`      // part name inside the package
	OrigName string `json:"orig_name,omitempty"` // original filename
	Alt      string `json:"alt,omitempty"`       // alt text
	Width    int    `json:"width,omitempty"`     // width in pixels
	Height   int    `json:"height,omitempty"`    // height in pixels
	Format   string `json:"format,omitempty"`    // png, jpeg, gif, bmp, tiff
	Data     []byte `json:"-"`                   // raw image data (not serialized)
}

func NewImage(id string) *ImageBlock { return &ImageBlock{ID: id} }

// SetDimensions records the pixel size.
func (img *ImageBlock) SetDimensions(width, height int) { img.Width, img.Height = width, height }

// HasData reports whether the bytes were loaded.
func (img *ImageBlock) HasData() bool {
	return len(img.Data) > 0
}

// FormatFromName derives a normalised format from a file name extension.
func FormatFromName(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	switch ext := strings.ToLower(name[i+1:]); ext {
	case "jpg", "jpeg":
		return "jpeg"
	case "tif", "tiff":
		return "tiff"
	default:
		return ext
	}
}
