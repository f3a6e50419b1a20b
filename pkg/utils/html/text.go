// ABOUTME: Text helpers for embedding fetched scripts and stylesheets into HTML
// ABOUTME: Decodes bytes to UTF-8 using the declared charset and keeps raw text elements closed

package html

import (
	"bytes"
	"regexp"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	coreerrors "github.com/ninimihaila/singlepage/core/errors"
)

// DecodeText converts content to a UTF-8 string.
// The encoding comes from a byte order mark, the charset parameter of
// contentType, or detection, in that order. Content holding NUL characters
// after decoding is treated as binary and rejected with ErrBinaryContent.
func DecodeText(content []byte, contentType string) (string, error) {
	enc, _, _ := charset.DetermineEncoding(content, contentType)

	decoded, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), content)
	if err != nil {
		return "", coreerrors.WrapError(err, "decode text")
	}
	if bytes.IndexByte(decoded, 0) >= 0 {
		return "", coreerrors.ErrBinaryContent
	}
	return string(decoded), nil
}

var closingTags = map[string]*regexp.Regexp{
	"script": regexp.MustCompile(`(?i)</(script)`),
	"style":  regexp.MustCompile(`(?i)</(style)`),
}

// EscapeRawText rewrites "</tag" sequences so text placed inside a raw text
// element (script or style) cannot terminate it early.
func EscapeRawText(text, tag string) string {
	re, ok := closingTags[tag]
	if !ok {
		return text
	}
	return re.ReplaceAllString(text, `<\/$1`)
}
