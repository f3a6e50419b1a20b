// ABOUTME: Content sniffer detects the image format of fetched bytes from their magic numbers
// ABOUTME: Never fails; unknown content maps to a documented default MIME type

package sniff

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ninimihaila/singlepage/core/domain"
)

// HeaderSize is the number of leading bytes inspected
const HeaderSize = 32

// ImageType returns the image subtype encoded in the leading bytes of data
func ImageType(data []byte) domain.ImageType {
	if len(data) == 0 {
		return domain.ImageUnknown
	}
	if len(data) > HeaderSize {
		data = data[:HeaderSize]
	}

	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if subtype, ok := strings.CutPrefix(m.String(), "image/"); ok {
			return domain.ImageType(subtype)
		}
	}
	return domain.ImageUnknown
}

// MIMEType picks the MIME type for an image data URI.
// The sniffed type wins; a declared image/* Content-Type is used when sniffing
// found nothing (SVG is text and has no magic number); otherwise the default.
func MIMEType(data []byte, declared string) string {
	if t := ImageType(data); t != domain.ImageUnknown {
		return t.MIME()
	}
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mediaType, "image/") {
			return mediaType
		}
	}
	return domain.DefaultImageMIME
}
