package richtext

import (
	"strings"
	"testing"
)

func TestRenderConvertsMarkdown(t *testing.T) {
	out, err := New().Render("# Title\n\n**bold** text")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Fatalf("expected strong tag, got %q", out)
	}
	if !strings.Contains(out, "<h1") {
		t.Fatalf("expected heading, got %q", out)
	}
}

func TestRenderStripsScripts(t *testing.T) {
	out, err := New().Render("hello <script>alert(1)</script> <a href=\"javascript:alert(1)\">x</a>")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "<script") || strings.Contains(out, "javascript:") {
		t.Fatalf("expected unsafe markup removed, got %q", out)
	}
}

func TestRenderHardWraps(t *testing.T) {
	out := New().RenderOrEscape("line one\nline two")
	if !strings.Contains(out, "<br") {
		t.Fatalf("expected hard wrap, got %q", out)
	}
	out = New(WithHardWraps(false)).RenderOrEscape("line one\nline two")
	if strings.Contains(out, "<br") {
		t.Fatalf("expected no hard wrap, got %q", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	if out, err := New().Render(""); err != nil || out != "" {
		t.Fatalf("expected empty output, got %q %v", out, err)
	}
}
