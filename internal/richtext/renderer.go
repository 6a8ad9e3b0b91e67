// Package richtext turns editor markdown into HTML that is safe to embed in
// public pages.
package richtext

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown to sanitized HTML. It is safe for concurrent
// use.
type Renderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
}

// Option customises a Renderer.
type Option func(*rendererConfig)

type rendererConfig struct {
	hardWraps bool
	policy    *bluemonday.Policy
}

// WithHardWraps renders single newlines as <br>. Editors write paragraphs
// in multi-line fields so this is on by default.
func WithHardWraps(enabled bool) Option {
	return func(cfg *rendererConfig) {
		cfg.hardWraps = enabled
	}
}

// WithPolicy replaces the default bluemonday UGC policy.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *rendererConfig) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

func New(opts ...Option) *Renderer {
	cfg := rendererConfig{hardWraps: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
		cfg.policy.AddTargetBlankToFullyQualifiedLinks(true)
	}

	rendererOptions := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if cfg.hardWraps {
		rendererOptions = append(rendererOptions, goldmark.WithRendererOptions(html.WithHardWraps()))
	}

	return &Renderer{
		engine: goldmark.New(rendererOptions...),
		policy: cfg.policy,
	}
}

// Render converts markdown to sanitized HTML.
func (r *Renderer) Render(markdown string) (string, error) {
	if markdown == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("richtext: render: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// RenderOrEscape renders markdown and falls back to the escaped source when
// conversion fails, for callers that cannot surface errors.
func (r *Renderer) RenderOrEscape(markdown string) string {
	out, err := r.Render(markdown)
	if err != nil {
		return bluemonday.StrictPolicy().Sanitize(markdown)
	}
	return out
}
