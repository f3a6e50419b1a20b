package domain

// ImageType is the subtype of an image MIME type, e.g. "png" for image/png
type ImageType string

const (
	ImagePNG  ImageType = "png"
	ImageJPEG ImageType = "jpeg"
	ImageGIF  ImageType = "gif"
	ImageBMP  ImageType = "bmp"
	ImageWEBP ImageType = "webp"
	ImageICO  ImageType = "x-icon"
	ImageTIFF ImageType = "tiff"
	ImageAVIF ImageType = "avif"

	// ImageUnknown is returned when no image signature matched
	ImageUnknown ImageType = ""
)

// DefaultImageMIME is stamped on images whose type cannot be determined
const DefaultImageMIME = "image/png"

// MIME returns the full MIME type, falling back to DefaultImageMIME
func (t ImageType) MIME() string {
	if t == ImageUnknown {
		return DefaultImageMIME
	}
	return "image/" + string(t)
}
