// ABOUTME: Rule and Reference domain models describe resource dependencies inside a page
// ABOUTME: A Reference is always a view into the parsed document, never a standalone entity

package domain

import "github.com/PuerkitoBio/goquery"

// Kind identifies what sort of resource a reference points at
type Kind string

const (
	// KindScript is an external script referenced by <script src>
	KindScript Kind = "script"

	// KindStyle is a stylesheet referenced by <link href>
	KindStyle Kind = "style"

	// KindImage is an image referenced by <img src>
	KindImage Kind = "image"
)

// Rule maps an element tag to the attribute holding its resource URL
type Rule struct {
	// Kind is the resource kind the rule produces
	Kind Kind

	// Tag is the lower-case element name to match
	Tag string

	// Attr is the attribute that carries the URL
	Attr string
}

// Selector returns the CSS selector matching elements of this rule
func (r Rule) Selector() string {
	return r.Tag + "[" + r.Attr + "]"
}

// Fixed rule table used when saving a page.
var (
	ScriptRule = Rule{Kind: KindScript, Tag: "script", Attr: "src"}
	StyleRule  = Rule{Kind: KindStyle, Tag: "link", Attr: "href"}
	ImageRule  = Rule{Kind: KindImage, Tag: "img", Attr: "src"}
)

// Reference is an (element, attribute) pair inside a document
type Reference struct {
	// Rule is the rule that matched the element
	Rule Rule

	// Element is the single-node selection of the matched element
	Element *goquery.Selection

	// Raw is the trimmed attribute value at aggregation time
	Raw string

	// URL is Raw resolved against the base URL; empty when resolution failed
	URL string
}
