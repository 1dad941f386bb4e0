// Package render turns resolved passages into response payloads per
// requested media type.
package render

import (
	"encoding/xml"
	"fmt"
	"html"
	"strings"

	"github.com/cllg-project/TexTile-Backend/internal/errors"
)

// Unit is one citable unit of a rendered passage.
type Unit struct {
	Ref  string
	Text string
}

// Passage is the resolved fragment handed to a transformer.
type Passage struct {
	DocumentID string
	Tree       string
	Units      []Unit
}

// Transformer renders a passage into the payload bytes for one media type.
type Transformer func(passage Passage) ([]byte, error)

// Registry maps media types onto transformers.
type Registry struct {
	transformers map[string]Transformer
}

// DefaultMediaType is assumed when the client does not ask for one.
const DefaultMediaType = "application/xml"

// NewRegistry builds a registry with the built-in XML and HTML transforms.
func NewRegistry() *Registry {
	r := &Registry{transformers: make(map[string]Transformer)}
	r.Register("application/xml", RenderXML)
	r.Register("text/html", RenderHTML)
	return r
}

// Register adds or replaces the transformer for a media type.
func (r *Registry) Register(mediaType string, transformer Transformer) {
	r.transformers[mediaType] = transformer
}

// Render transforms the passage for the media type. An empty media type
// falls back to DefaultMediaType; an unregistered one fails with
// UnsupportedMediaType.
func (r *Registry) Render(mediaType string, passage Passage) ([]byte, error) {
	if mediaType == "" {
		mediaType = DefaultMediaType
	}
	transformer, ok := r.transformers[mediaType]
	if !ok {
		return nil, errors.NewUnsupportedMediaTypeError(mediaType)
	}
	return transformer(passage)
}

func xmlEscape(s string) string {
	var b strings.Builder
	// EscapeText on a Builder never fails.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// RenderXML wraps the passage in a minimal TEI fragment.
func RenderXML(passage Passage) ([]byte, error) {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<TEI xmlns="http://www.tei-c.org/ns/1.0">` + "\n")
	fmt.Fprintf(&b, "  <text xml:id=%q>\n", xmlEscape(passage.DocumentID))
	b.WriteString("    <body>\n")
	for _, unit := range passage.Units {
		fmt.Fprintf(&b, "      <div n=%q>%s</div>\n", xmlEscape(unit.Ref), xmlEscape(unit.Text))
	}
	b.WriteString("    </body>\n")
	b.WriteString("  </text>\n")
	b.WriteString("</TEI>\n")
	return []byte(b.String()), nil
}

// RenderHTML renders the passage as a self-contained HTML fragment.
func RenderHTML(passage Passage) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "<article class=\"dts-document\" data-document=%q data-tree=%q>\n",
		html.EscapeString(passage.DocumentID), html.EscapeString(passage.Tree))
	for _, unit := range passage.Units {
		fmt.Fprintf(&b, "  <div class=\"dts-unit\" data-ref=%q>%s</div>\n",
			html.EscapeString(unit.Ref), html.EscapeString(unit.Text))
	}
	b.WriteString("</article>\n")
	return []byte(b.String()), nil
}
