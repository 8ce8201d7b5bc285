package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/deptnews/internal/app/system/htmlsanitize"
)

func TestBody_Empty(t *testing.T) {
	if got := htmlsanitize.Body("   "); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestBody_PlainText(t *testing.T) {
	if got := htmlsanitize.Body("Hello, World"); got != "Hello, World" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestBody_SafeHTML(t *testing.T) {
	input := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if got := htmlsanitize.Body(input); got != input {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestBody_RemovesScript(t *testing.T) {
	if got := htmlsanitize.Body("<p>Hello</p><script>alert(1)</script>"); got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestBody_RemovesEventHandlers(t *testing.T) {
	got := htmlsanitize.Body(`<img src="https://example.com/x.png" onerror="alert(1)">`)
	if strings.Contains(got, "onerror") {
		t.Errorf("expected onerror removed, got %q", got)
	}
}

func TestBody_RemovesJavascriptHref(t *testing.T) {
	got := htmlsanitize.Body(`<a href="javascript:alert(1)">Click</a>`)
	if strings.Contains(got, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", got)
	}
}

func TestBody_LinksGetNofollow(t *testing.T) {
	got := htmlsanitize.Body(`<a href="https://example.com">Link</a>`)
	if !strings.Contains(got, "https://example.com") || !strings.Contains(got, "nofollow") {
		t.Errorf("expected safe link with nofollow, got %q", got)
	}
}

func TestBody_RemovesIframe(t *testing.T) {
	got := htmlsanitize.Body(`<p>Content</p><iframe src="https://evil.example"></iframe>`)
	if strings.Contains(got, "iframe") || !strings.Contains(got, "Content") {
		t.Errorf("expected iframe removed and content kept, got %q", got)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Exam schedule", "Exam schedule"},
		{"<b>Exam</b> schedule", "Exam schedule"},
		{"  R & D  ", "R & D"},
		{"<script>alert(1)</script>Notice", "Notice"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.Text(tt.in); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsPlainText(t *testing.T) {
	if !htmlsanitize.IsPlainText("5 < 10") || !htmlsanitize.IsPlainText("") {
		t.Error("expected plain text")
	}
	if htmlsanitize.IsPlainText("<p>Hello</p>") {
		t.Error("expected markup to be detected")
	}
}
