// ABOUTME: DOM link aggregator walks a parsed page and yields every resource reference
// ABOUTME: References come out in document order with URLs resolved against the base

package links

import (
	"iter"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/ninimihaila/singlepage/core/domain"
	"github.com/ninimihaila/singlepage/core/resolver"
)

// DefaultRules is the fixed rule table: script/src, link/href, img/src
var DefaultRules = []domain.Rule{domain.ScriptRule, domain.StyleRule, domain.ImageRule}

// defaultMatcher is compiled once; a broken rule table panics at init
var defaultMatcher = cascadia.MustCompile(selectorGroup(DefaultRules))

// Aggregate yields one reference per element matching a rule whose attribute
// is non-empty. Resolution happens as the sequence is consumed; a reference
// that fails to resolve is yielded with an empty URL and a ResolutionError.
// The document is never modified.
func Aggregate(doc *goquery.Document, rules []domain.Rule, base string) iter.Seq2[domain.Reference, error] {
	return func(yield func(domain.Reference, error) bool) {
		if doc == nil || len(rules) == 0 {
			return
		}

		// Rules are tag/attribute names, not user input. A custom rule whose
		// selector does not compile, such as an empty tag, matches nothing.
		matcher, err := compileRules(rules)
		if err != nil {
			return
		}

		doc.FindMatcher(matcher).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			tag := goquery.NodeName(el)
			for _, rule := range rules {
				if rule.Tag != tag {
					continue
				}
				value, ok := el.Attr(rule.Attr)
				value = strings.TrimSpace(value)
				if !ok || value == "" {
					continue
				}

				ref := domain.Reference{Rule: rule, Element: el, Raw: value}
				resolved, err := resolver.Resolve(value, base)
				if err == nil {
					ref.URL = resolved
				}
				if !yield(ref, err) {
					return false
				}
			}
			return true
		})
	}
}

// URLs returns the distinct resolved URLs referenced by doc, in document order.
// References that fail to resolve are left out.
func URLs(doc *goquery.Document, rules []domain.Rule, base string) []string {
	seen := make(map[string]struct{})
	var urls []string
	for ref, err := range Aggregate(doc, rules, base) {
		if err != nil {
			continue
		}
		if _, dup := seen[ref.URL]; dup {
			continue
		}
		seen[ref.URL] = struct{}{}
		urls = append(urls, ref.URL)
	}
	return urls
}

// BaseURL returns the URL references in doc resolve against: the first
// <base href> when present and valid, otherwise pageURL.
func BaseURL(doc *goquery.Document, pageURL string) string {
	if doc == nil {
		return pageURL
	}
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return pageURL
	}
	resolved, err := resolver.Resolve(href, pageURL)
	if err != nil || !resolver.IsFetchable(resolved) {
		return pageURL
	}
	return resolved
}

func compileRules(rules []domain.Rule) (cascadia.Selector, error) {
	if slices.Equal(rules, DefaultRules) {
		return defaultMatcher, nil
	}
	return cascadia.Compile(selectorGroup(rules))
}

func selectorGroup(rules []domain.Rule) string {
	selectors := make([]string, 0, len(rules))
	for _, rule := range rules {
		selectors = append(selectors, rule.Selector())
	}
	return strings.Join(selectors, ", ")
}
