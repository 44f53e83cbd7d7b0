package syntax

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// MarshalJSON implements json.Marshaler for Resource.
func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

// ToMap converts the resource to plain maps and slices. Every node carries a
// "type" key naming its kind.
func (r *Resource) ToMap() map[string]any {
	body := make([]any, 0, len(r.Body))
	for _, e := range r.Body {
		body = append(body, entryToMap(e))
	}

	return map[string]any{
		"type": "Resource",
		"name": r.Name,
		"body": body,
	}
}

// FormatJSON writes the resource as JSON to the writer.
func (r *Resource) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(r, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(r)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the resource as YAML to the writer. An indent of zero
// selects flow style.
func (r *Resource) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, r.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func entryToMap(e Entry) map[string]any {
	switch e := e.(type) {
	case *Message:
		m := map[string]any{
			"type":       "Message",
			"id":         e.ID.Name,
			"value":      patternToNative(e.Value),
			"attributes": attributesToNative(e.Attributes),
		}
		addSpan(m, e.Span)

		return m

	case *Term:
		m := map[string]any{
			"type":       "Term",
			"id":         e.ID.Name,
			"value":      patternToNative(e.Value),
			"attributes": attributesToNative(e.Attributes),
		}
		addSpan(m, e.Span)

		return m

	case *Junk:
		m := map[string]any{"type": "Junk", "content": e.Content}
		addSpan(m, e.Span)

		return m

	default:
		return map[string]any{"type": fmt.Sprintf("%T", e)}
	}
}

func addSpan(m map[string]any, s Span) {
	m["span"] = map[string]any{"start": s.Start, "end": s.End}
}

func attributesToNative(attrs []*Attribute) []any {
	out := make([]any, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, map[string]any{
			"type":  "Attribute",
			"id":    a.ID.Name,
			"value": patternToNative(a.Value),
		})
	}

	return out
}

func patternToNative(p *Pattern) any {
	if p == nil {
		return nil
	}

	elements := make([]any, 0, len(p.Elements))

	for _, el := range p.Elements {
		switch el := el.(type) {
		case *Text:
			elements = append(elements, map[string]any{
				"type":  "TextElement",
				"value": el.Value,
			})

		case *Placeable:
			elements = append(elements, expressionToNative(el))
		}
	}

	return map[string]any{"type": "Pattern", "elements": elements}
}

func expressionToNative(e Expression) map[string]any {
	switch e := e.(type) {
	case *StringLiteral:
		return map[string]any{"type": "StringLiteral", "value": e.Value}

	case *NumberLiteral:
		return map[string]any{"type": "NumberLiteral", "value": e.Raw}

	case *VariableReference:
		return map[string]any{"type": "VariableReference", "id": e.ID.Name}

	case *MessageReference:
		m := map[string]any{"type": "MessageReference", "id": e.ID.Name}
		if e.Attribute != nil {
			m["attribute"] = e.Attribute.Name
		}

		return m

	case *TermReference:
		m := map[string]any{"type": "TermReference", "id": e.ID.Name}
		if e.Attribute != nil {
			m["attribute"] = e.Attribute.Name
		}

		if e.Arguments != nil {
			m["arguments"] = argumentsToNative(e.Arguments)
		}

		return m

	case *FunctionReference:
		return map[string]any{
			"type":      "FunctionReference",
			"id":        e.ID.Name,
			"arguments": argumentsToNative(e.Arguments),
		}

	case *SelectExpression:
		variants := make([]any, 0, len(e.Variants))
		for _, v := range e.Variants {
			variants = append(variants, map[string]any{
				"type":    "Variant",
				"key":     v.Key.String(),
				"value":   patternToNative(v.Value),
				"default": v.Default,
			})
		}

		return map[string]any{
			"type":     "SelectExpression",
			"selector": expressionToNative(e.Selector),
			"variants": variants,
		}

	case *Placeable:
		return map[string]any{
			"type":       "Placeable",
			"expression": expressionToNative(e.Expression),
		}

	default:
		return map[string]any{"type": fmt.Sprintf("%T", e)}
	}
}

func argumentsToNative(args *CallArguments) map[string]any {
	positional := make([]any, 0, len(args.Positional))
	for _, p := range args.Positional {
		positional = append(positional, expressionToNative(p))
	}

	named := make([]any, 0, len(args.Named))
	for _, n := range args.Named {
		named = append(named, map[string]any{
			"type":  "NamedArgument",
			"name":  n.Name.Name,
			"value": expressionToNative(n.Value),
		})
	}

	return map[string]any{
		"type":       "CallArguments",
		"positional": positional,
		"named":      named,
	}
}
