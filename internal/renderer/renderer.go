// Package renderer turns the pipeline's result into final output text:
// an interactive-style tree listing, pretty-printed JSON, or YAML.
package renderer

import (
	"bytes"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonview/internal/errors"
	"github.com/mcncl/jsonview/internal/models"
	"github.com/mcncl/jsonview/internal/tree"
)

// DefaultIndent is the indent width used when none is configured.
const DefaultIndent = 2

// Renderer produces output text for parsed documents.
type Renderer struct {
	indent int
	json   jsoniter.API
}

// NewRenderer creates a Renderer with the given indent width; values
// below 1 fall back to DefaultIndent.
func NewRenderer(indent int) *Renderer {
	if indent < 1 {
		indent = DefaultIndent
	}
	return &Renderer{
		indent: indent,
		json: jsoniter.Config{
			IndentionStep: indent,
			EscapeHTML:    false,
		}.Froze(),
	}
}

// MarshalJSON serializes the value as pretty-printed JSON with object
// keys in insertion order. This is the copy-out form for whole documents
// and extracted subtrees.
func (r *Renderer) MarshalJSON(v *models.Value) ([]byte, error) {
	stream := r.json.BorrowStream(nil)
	defer r.json.ReturnStream(stream)

	writeValue(stream, v)
	if stream.Error != nil {
		return nil, errors.NewRenderError("failed to serialize document", stream.Error)
	}
	out := make([]byte, len(stream.Buffer()))
	copy(out, stream.Buffer())
	return out, nil
}

func writeValue(stream *jsoniter.Stream, v *models.Value) {
	switch v.Kind() {
	case models.KindNull:
		stream.WriteNil()
	case models.KindBool:
		stream.WriteBool(v.Bool())
	case models.KindNumber:
		stream.WriteRaw(models.FormatNumber(v.Float64()))
	case models.KindString:
		stream.WriteString(v.Str())
	case models.KindArray:
		if v.Len() == 0 {
			stream.WriteEmptyArray()
			return
		}
		stream.WriteArrayStart()
		for i, item := range v.Items() {
			if i > 0 {
				stream.WriteMore()
			}
			writeValue(stream, item)
		}
		stream.WriteArrayEnd()
	case models.KindObject:
		if v.Len() == 0 {
			stream.WriteEmptyObject()
			return
		}
		stream.WriteObjectStart()
		for i, m := range v.Members() {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(m.Key)
			writeValue(stream, m.Value)
		}
		stream.WriteObjectEnd()
	}
}

// MarshalYAML serializes the value as YAML with object keys in insertion
// order. Plain yaml.Marshal of a Go map would sort keys, so the document
// is encoded through an explicit yaml.Node tree instead.
func (r *Renderer) MarshalYAML(v *models.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(r.indent)
	if err := enc.Encode(yamlNode(v)); err != nil {
		return nil, errors.NewRenderError("failed to encode YAML", err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.NewRenderError("failed to encode YAML", err)
	}
	return buf.Bytes(), nil
}

func yamlNode(v *models.Value) *yaml.Node {
	switch v.Kind() {
	case models.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", v.Bool())}
	case models.KindNumber:
		n := models.FormatNumber(v.Float64())
		tag := "!!float"
		if !strings.ContainsAny(n, ".eE") {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n}
	case models.KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str()}
	case models.KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range v.Items() {
			node.Content = append(node.Content, yamlNode(item))
		}
		return node
	case models.KindObject:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, m := range v.Members() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				yamlNode(m.Value),
			)
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// RenderTree renders the view's visible nodes as an indented tree with
// guide lines. Collapsed containers appear as a bracket-pair placeholder
// with an element count; their children are never visited.
func (r *Renderer) RenderTree(view *tree.View) string {
	var b strings.Builder
	var lasts []bool

	view.Walk(func(n tree.Node) bool {
		lasts = append(lasts[:n.Depth], n.Last)

		if n.Depth > 0 {
			for _, last := range lasts[1:n.Depth] {
				if last {
					b.WriteString("   ")
				} else {
					b.WriteString("│  ")
				}
			}
			if n.Last {
				b.WriteString("└─ ")
			} else {
				b.WriteString("├─ ")
			}
		}

		if n.Key != "" {
			b.WriteString(n.Key)
			b.WriteString(": ")
		}
		b.WriteString(nodeText(n))
		b.WriteByte('\n')
		return true
	})

	return b.String()
}

// nodeText renders the value portion of a tree row.
func nodeText(n tree.Node) string {
	v := n.Value
	switch v.Kind() {
	case models.KindArray:
		if v.Len() == 0 {
			return "[]"
		}
		if n.Collapsed {
			return fmt.Sprintf("[…] %s", countLabel(v.Len(), "item"))
		}
		return "["
	case models.KindObject:
		if v.Len() == 0 {
			return "{}"
		}
		if n.Collapsed {
			return fmt.Sprintf("{…} %s", countLabel(v.Len(), "key"))
		}
		return "{"
	default:
		// Scalars reuse the compact JSON literal form.
		return v.String()
	}
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
