// ABOUTME: Inliner embeds cached resources into the document in place
// ABOUTME: One mechanism per rule; failures become warnings and leave elements untouched

package inline

import (
	"context"
	"errors"

	"github.com/PuerkitoBio/goquery"

	"github.com/ninimihaila/singlepage/core/domain"
	coreerrors "github.com/ninimihaila/singlepage/core/errors"
	"github.com/ninimihaila/singlepage/core/interfaces"
	"github.com/ninimihaila/singlepage/core/links"
	"github.com/ninimihaila/singlepage/core/resolver"
	"github.com/ninimihaila/singlepage/pkg/featureflags"
)

// step pairs a rule with its strategy and the flag gating it
type step struct {
	flag     featureflags.FeatureFlag
	rule     domain.Rule
	strategy Strategy
}

// steps run in this order: scripts, styles, images
var steps = []step{
	{flag: featureflags.InlineScripts, rule: domain.ScriptRule, strategy: Script},
	{flag: featureflags.InlineStyles, rule: domain.StyleRule, strategy: Style},
	{flag: featureflags.InlineImages, rule: domain.ImageRule, strategy: Image},
}

// Option configures a Service
type Option func(*Service)

// WithFlags sets the feature flag manager deciding which kinds are inlined
func WithFlags(m featureflags.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.flags = m
		}
	}
}

// Service inlines resources into documents
type Service struct {
	logger interfaces.Logger
	flags  featureflags.Manager
}

// NewService creates a new inline service. Without WithFlags every kind is
// enabled unless turned off through FEATURE_* environment variables.
func NewService(deps interfaces.Dependencies, opts ...Option) *Service {
	s := &Service{
		logger: deps.Logger,
		flags:  featureflags.NewEnvManager(""),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InlineAll runs the script, style and image passes in that order and sums
// their reports. Disabled kinds are left as they are.
func (s *Service) InlineAll(ctx context.Context, doc *goquery.Document, base string, cache interfaces.ResourceCache) interfaces.InlineReport {
	var total interfaces.InlineReport
	for _, st := range steps {
		if !s.flags.IsEnabled(ctx, st.flag) {
			s.logDebug("Inlining disabled", map[string]interface{}{
				"kind": string(st.rule.Kind),
			})
			continue
		}
		r := s.Inline(ctx, doc, st.rule, cache, base, st.strategy)
		total.Inlined += r.Inlined
		total.Skipped += r.Skipped
		total.Warnings = append(total.Warnings, r.Warnings...)
	}
	return total
}

// Inline applies strategy to every reference of rule in doc. References that
// are already data URIs are skipped. A reference that cannot be resolved, was
// not fetched, failed to fetch or cannot be transformed produces one warning
// and keeps its original markup.
func (s *Service) Inline(ctx context.Context, doc *goquery.Document, rule domain.Rule, cache interfaces.ResourceCache, base string, strategy Strategy) interfaces.InlineReport {
	var report interfaces.InlineReport

	for ref, err := range links.Aggregate(doc, []domain.Rule{rule}, base) {
		if resolver.IsInline(ref.Raw) {
			report.Skipped++
			s.logDebug("Already inline", map[string]interface{}{
				"kind": string(rule.Kind),
			})
			continue
		}
		if err != nil {
			report.Warnings = append(report.Warnings, s.warn(ref.Raw, rule.Kind, err))
			continue
		}

		content, err := s.content(ctx, ref, cache, strategy)
		if err != nil {
			report.Warnings = append(report.Warnings, s.warn(ref.URL, rule.Kind, err))
			continue
		}

		strategy.Apply(ref, content)
		report.Inlined++
	}

	return report
}

// content looks up the fetched resource for ref and transforms it
func (s *Service) content(ctx context.Context, ref domain.Reference, cache interfaces.ResourceCache, strategy Strategy) (string, error) {
	if !resolver.IsFetchable(ref.URL) {
		return "", coreerrors.ErrUnsupportedScheme
	}
	if cache == nil {
		return "", coreerrors.ErrCacheMiss
	}
	res, err := cache.Get(ctx, ref.URL)
	if err != nil {
		return "", err
	}
	if res.Failed() {
		return "", res.Err
	}
	return strategy.Transform(res)
}

// warn logs a failed reference and returns the warning text
func (s *Service) warn(url string, kind domain.Kind, err error) string {
	ierr := &coreerrors.InlineError{URL: url, Kind: string(kind), Err: err}
	if s.logger != nil {
		s.logger.Warn("Resource not inlined", map[string]interface{}{
			"url":    url,
			"kind":   string(kind),
			"reason": reason(err),
			"error":  err.Error(),
		})
	}
	return ierr.Error()
}

// reason classifies why a reference was left as it is
func reason(err error) string {
	switch {
	case coreerrors.IsResolution(err):
		return "unresolvable"
	case coreerrors.IsFetch(err):
		return "fetch failed"
	case errors.Is(err, coreerrors.ErrCacheMiss), errors.Is(err, coreerrors.ErrUnsupportedScheme):
		return "not fetched"
	default:
		return "unusable content"
	}
}

func (s *Service) logDebug(msg string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, fields)
	}
}
