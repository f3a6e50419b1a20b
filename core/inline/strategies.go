// ABOUTME: Per-kind inlining strategies: how fetched bytes become element content
// ABOUTME: Scripts and styles embed decoded text, images become base64 data URIs

package inline

import (
	"encoding/base64"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ninimihaila/singlepage/core/domain"
	coreerrors "github.com/ninimihaila/singlepage/core/errors"
	"github.com/ninimihaila/singlepage/core/sniff"
	htmlutil "github.com/ninimihaila/singlepage/pkg/utils/html"
)

// Strategy turns a fetched resource into content and writes it into the
// referencing element. Transform must not touch the document; Apply is only
// called when Transform succeeded.
type Strategy struct {
	Kind      domain.Kind
	Transform func(res *domain.Resource) (string, error)
	Apply     func(ref domain.Reference, content string)
}

// Script replaces the element body with the decoded source and drops src
var Script = Strategy{
	Kind: domain.KindScript,
	Transform: func(res *domain.Resource) (string, error) {
		text, err := htmlutil.DecodeText(res.Body, res.ContentType)
		if err != nil {
			return "", err
		}
		return htmlutil.EscapeRawText(text, "script"), nil
	},
	Apply: func(ref domain.Reference, content string) {
		setRawText(ref.Element, content)
		ref.Element.RemoveAttr("src")
	},
}

// Style turns a link element into a style element holding the stylesheet
var Style = Strategy{
	Kind: domain.KindStyle,
	Transform: func(res *domain.Resource) (string, error) {
		if !stylesheetType(res.ContentType) {
			return "", coreerrors.ErrUnexpectedContent
		}
		text, err := htmlutil.DecodeText(res.Body, res.ContentType)
		if err != nil {
			return "", err
		}
		return htmlutil.EscapeRawText(text, "style"), nil
	},
	Apply: func(ref domain.Reference, content string) {
		for _, n := range ref.Element.Nodes {
			n.Data = "style"
			n.DataAtom = atom.Style
		}
		ref.Element.RemoveAttr("href")
		setRawText(ref.Element, content)
	},
}

// Image points src at a data URI carrying the image bytes
var Image = Strategy{
	Kind: domain.KindImage,
	Transform: func(res *domain.Resource) (string, error) {
		return DataURI(res.Body, res.ContentType), nil
	},
	Apply: func(ref domain.Reference, content string) {
		ref.Element.SetAttr("src", content)
	},
}

// setRawText replaces the children of each selected element with a single
// text node. Script and style bodies are raw text: the renderer writes the
// node data verbatim, so content must not be entity-escaped.
func setRawText(sel *goquery.Selection, content string) {
	for _, n := range sel.Nodes {
		for c := n.FirstChild; c != nil; c = n.FirstChild {
			n.RemoveChild(c)
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: content})
	}
}

// DataURI encodes data as data:<mime>;base64,<payload>. The media type is
// sniffed from the bytes, then taken from declared, then defaults to image/png.
func DataURI(data []byte, declared string) string {
	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(sniff.MIMEType(data, declared))
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// stylesheetType rejects declared media types that can never be a
// stylesheet, such as pages behind rel=canonical or icons. Unknown or
// missing types are accepted since servers often mislabel CSS.
func stylesheetType(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml", "application/json":
		return false
	}
	for _, prefix := range []string{"image/", "font/", "audio/", "video/"} {
		if strings.HasPrefix(mediaType, prefix) {
			return false
		}
	}
	return true
}
