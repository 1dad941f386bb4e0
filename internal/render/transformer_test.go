package render

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/cllg-project/TexTile-Backend/internal/errors"
)

func testPassage() Passage {
	return Passage{
		DocumentID: "ms-1",
		Tree:       "default",
		Units: []Unit{
			{Ref: "1.1", Text: "salve regina mater misericordiae"},
			{Ref: "1.2", Text: "vita dulcedo & spes nostra"},
		},
	}
}

func TestRegistryRender(t *testing.T) {
	registry := NewRegistry()

	t.Run("xml output", func(t *testing.T) {
		data, err := registry.Render("application/xml", testPassage())
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		out := string(data)
		if !strings.Contains(out, `<TEI xmlns="http://www.tei-c.org/ns/1.0">`) {
			t.Errorf("missing TEI wrapper:\n%s", out)
		}
		if !strings.Contains(out, `<div n="1.1">salve regina mater misericordiae</div>`) {
			t.Errorf("missing first unit:\n%s", out)
		}
		if !strings.Contains(out, "dulcedo &amp; spes") {
			t.Errorf("ampersand not escaped:\n%s", out)
		}
	})

	t.Run("empty media type uses default", func(t *testing.T) {
		data, err := registry.Render("", testPassage())
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.Contains(string(data), "<TEI") {
			t.Errorf("expected XML default, got:\n%s", data)
		}
	})

	t.Run("html output", func(t *testing.T) {
		data, err := registry.Render("text/html", testPassage())
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		out := string(data)
		if !strings.Contains(out, `data-document="ms-1"`) {
			t.Errorf("missing document attribute:\n%s", out)
		}
		if !strings.Contains(out, `<div class="dts-unit" data-ref="1.2">`) {
			t.Errorf("missing unit div:\n%s", out)
		}
		if !strings.Contains(out, "dulcedo &amp; spes") {
			t.Errorf("ampersand not escaped:\n%s", out)
		}
	})

	t.Run("unsupported media type", func(t *testing.T) {
		_, err := registry.Render("application/pdf", testPassage())
		if !stderrors.Is(err, errors.ErrUnsupportedMediaType) {
			t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
		}
		var typed *errors.UnsupportedMediaTypeError
		if !stderrors.As(err, &typed) || typed.MediaType != "application/pdf" {
			t.Errorf("expected typed error carrying the media type, got %v", err)
		}
	})

	t.Run("custom transformer", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register("text/plain", func(passage Passage) ([]byte, error) {
			lines := make([]string, len(passage.Units))
			for i, unit := range passage.Units {
				lines[i] = unit.Text
			}
			return []byte(strings.Join(lines, "\n")), nil
		})

		data, err := registry.Render("text/plain", testPassage())
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.HasPrefix(string(data), "salve regina") {
			t.Errorf("unexpected plain output: %q", data)
		}
	})
}
