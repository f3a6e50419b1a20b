package inline

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/ninimihaila/singlepage/core/domain"
	coreerrors "github.com/ninimihaila/singlepage/core/errors"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func parse(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func reference(doc *goquery.Document, rule domain.Rule) domain.Reference {
	el := doc.Find(rule.Selector()).First()
	raw, _ := el.Attr(rule.Attr)
	return domain.Reference{Rule: rule, Element: el, Raw: raw}
}

func TestScriptStrategy(t *testing.T) {
	doc := parse(t, `<html><head><script src="a.js" defer></script></head></html>`)
	ref := reference(doc, domain.ScriptRule)

	content, err := Script.Transform(&domain.Resource{Body: []byte(`var s = "</script>";`), ContentType: "text/javascript"})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	Script.Apply(ref, content)

	el := doc.Find("script")
	if _, ok := el.Attr("src"); ok {
		t.Error("src attribute should be removed")
	}
	if _, ok := el.Attr("defer"); !ok {
		t.Error("other attributes should be kept")
	}
	if got := el.Text(); got != `var s = "<\/script>";` {
		t.Errorf("script text = %q", got)
	}
}

func TestStyleStrategy(t *testing.T) {
	doc := parse(t, `<html><head><link rel="stylesheet" href="a.css" media="print"></head></html>`)
	ref := reference(doc, domain.StyleRule)

	content, err := Style.Transform(&domain.Resource{Body: []byte("body{color:red}"), ContentType: "text/css"})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	Style.Apply(ref, content)

	if doc.Find("link").Length() != 0 {
		t.Error("link element should be renamed")
	}
	style := doc.Find("style")
	if style.Length() != 1 {
		t.Fatalf("style elements = %d, want 1", style.Length())
	}
	if _, ok := style.Attr("href"); ok {
		t.Error("href attribute should be removed")
	}
	if media, _ := style.Attr("media"); media != "print" {
		t.Errorf("media = %q, want print", media)
	}
	if got := style.Text(); got != "body{color:red}" {
		t.Errorf("style text = %q", got)
	}

	html, err := goquery.OuterHtml(style)
	if err != nil {
		t.Fatalf("OuterHtml() error = %v", err)
	}
	if !strings.HasSuffix(html, "body{color:red}</style>") {
		t.Errorf("rendered = %q, want a closed style element", html)
	}
}

func TestStyleStrategy_RejectsNonStylesheets(t *testing.T) {
	tests := []struct {
		name string
		res  *domain.Resource
		want error
	}{
		{"favicon bytes", &domain.Resource{Body: []byte{0, 0, 1, 0, 1, 0}}, coreerrors.ErrBinaryContent},
		{"declared icon", &domain.Resource{Body: []byte("GIF89a"), ContentType: "image/x-icon"}, coreerrors.ErrUnexpectedContent},
		{"canonical page", &domain.Resource{Body: []byte("<html></html>"), ContentType: "text/html; charset=utf-8"}, coreerrors.ErrUnexpectedContent},
		{"font", &domain.Resource{Body: []byte("wOFF"), ContentType: "font/woff"}, coreerrors.ErrUnexpectedContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Style.Transform(tt.res)
			if !errors.Is(err, tt.want) {
				t.Errorf("Transform() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStyleStrategy_AcceptsMislabelledCSS(t *testing.T) {
	for _, ct := range []string{"", "text/plain", "application/octet-stream", "text/css; charset=utf-8"} {
		if _, err := Style.Transform(&domain.Resource{Body: []byte("a{}"), ContentType: ct}); err != nil {
			t.Errorf("Transform() with %q error = %v", ct, err)
		}
	}
}

func TestImageStrategy(t *testing.T) {
	doc := parse(t, `<html><body><img src="a.png" alt="logo"></body></html>`)
	ref := reference(doc, domain.ImageRule)

	content, err := Image.Transform(&domain.Resource{Body: pngHeader})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	Image.Apply(ref, content)

	src, _ := doc.Find("img").Attr("src")
	if !strings.HasPrefix(src, "data:image/png;base64,") {
		t.Errorf("src = %q, want png data URI", src)
	}
	if alt, _ := doc.Find("img").Attr("alt"); alt != "logo" {
		t.Errorf("alt = %q, want logo", alt)
	}
}

func TestDataURI(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		declared string
		want     string
	}{
		{"sniffed gif", []byte("GIF89a"), "", "data:image/gif;base64,R0lGODlh"},
		{"declared svg", []byte("<svg/>"), "image/svg+xml", "data:image/svg+xml;base64,PHN2Zy8+"},
		{"default png", []byte("abc"), "", "data:image/png;base64,YWJj"},
		{"empty", nil, "", "data:image/png;base64,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DataURI(tt.data, tt.declared); got != tt.want {
				t.Errorf("DataURI() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStrategies_RenderTextVerbatim(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		rule     domain.Rule
		strategy Strategy
		body     string
		selector string
		want     string
	}{
		{
			name:     "script",
			markup:   `<html><head><script src="a.js">old()</script></head></html>`,
			rule:     domain.ScriptRule,
			strategy: Script,
			body:     `if (a < b && c > d) { console.log("hi", 'x'); }`,
			selector: "script",
			want:     `<script>if (a < b && c > d) { console.log("hi", 'x'); }</script>`,
		},
		{
			name:     "style",
			markup:   `<html><head><link href="a.css"></head></html>`,
			rule:     domain.StyleRule,
			strategy: Style,
			body:     `ul > li::after { content: "a & b"; quotes: '<' '>'; }`,
			selector: "style",
			want:     `<style>ul > li::after { content: "a & b"; quotes: '<' '>'; }</style>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.markup)
			content, err := tt.strategy.Transform(&domain.Resource{Body: []byte(tt.body)})
			if err != nil {
				t.Fatalf("Transform() error = %v", err)
			}
			tt.strategy.Apply(reference(doc, tt.rule), content)

			el := doc.Find(tt.selector)
			if got := el.Text(); got != tt.body {
				t.Errorf("text = %q, want %q", got, tt.body)
			}
			if el.Contents().Length() != 1 {
				t.Errorf("children = %d, want a single text node", el.Contents().Length())
			}
			rendered, err := goquery.OuterHtml(el)
			if err != nil {
				t.Fatalf("OuterHtml() error = %v", err)
			}
			if rendered != tt.want {
				t.Errorf("rendered = %q, want %q", rendered, tt.want)
			}
		})
	}
}
