package bundle

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ftl/syntax"
)

// validate runs every semantic check over the merged entries of b. The
// resources are the parsed sources in order, used for the per-source
// duplicate check. It never modifies b.
func validate(b *Bundle, resources []*syntax.Resource) []*ValidationError {
	v := validator{
		bundle: b,
		keys:   slices.Sorted(maps.Keys(b.entries)),
		seen:   make(map[refKey]bool),
	}

	for _, res := range resources {
		v.duplicates(res)
	}

	adj := make(map[string][]string, len(v.keys))

	for _, key := range v.keys {
		adj[key] = v.references(key)
	}

	v.cycles(adj)

	return v.errs
}

type validator struct {
	bundle *Bundle
	keys   []string
	errs   []*ValidationError
	seen   map[refKey]bool
}

// refKey identifies one reported unknown reference so that repeated uses of
// the same bad reference in one entry are reported once.
type refKey struct {
	identifier string
	reference  string
	kind       ValidationKind
}

func (v *validator) report(e *ValidationError) {
	if e.Source == "" {
		e.Source = v.bundle.origin[e.Identifier]
	}

	v.errs = append(v.errs, e)
}

// duplicates reports identifiers defined more than once within res.
func (v *validator) duplicates(res *syntax.Resource) {
	defined := make(map[string]bool)

	for _, e := range res.Body {
		key, ok := entryKey(e)
		if !ok {
			continue
		}

		if defined[key] {
			kind := "message"
			if strings.HasPrefix(key, syntax.TermSigil) {
				kind = "term"
			}

			v.report(&ValidationError{
				Kind:       DuplicateMessageID,
				Message:    fmt.Sprintf("%s %q is defined more than once", kind, key),
				Identifier: key,
				Source:     res.Name,
			})

			continue
		}

		defined[key] = true
	}
}

// references checks every message and term reference made by the entry
// stored under key and returns the keys of the existing entries it refers
// to, in order of first appearance.
func (v *validator) references(key string) []string {
	var (
		edges []string
		added = make(map[string]bool)
	)

	walkEntry(v.bundle.entries[key], func(expr syntax.Expression) {
		var target string

		switch ref := expr.(type) {
		case *syntax.MessageReference:
			if !v.checkMessage(key, ref) {
				return
			}

			target = ref.ID.Name
		case *syntax.TermReference:
			if !v.checkTerm(key, ref) {
				return
			}

			target = syntax.TermSigil + ref.ID.Name
		default:
			return
		}

		if !added[target] {
			added[target] = true
			edges = append(edges, target)
		}
	})

	return edges
}

// checkMessage reports an unknown message or attribute and returns whether
// the referenced message exists.
func (v *validator) checkMessage(from string, ref *syntax.MessageReference) bool {
	msg, ok := v.bundle.message(ref.ID.Name)
	if !ok {
		v.unknown(from, ref.Name(), UnknownMessage,
			fmt.Sprintf("message %q referenced by %q does not exist", ref.ID.Name, from),
			v.suggest(ref.ID.Name, v.bundle.messageIDs, ""))

		return false
	}

	if ref.Attribute != nil && msg.Attribute(ref.Attribute.Name) == nil {
		v.unknown(from, ref.Name(), UnknownAttribute,
			fmt.Sprintf("message %q has no attribute %q", ref.ID.Name, ref.Attribute.Name),
			v.suggest(ref.Attribute.Name, attributeNames(msg.Attributes), ""))
	}

	return true
}

// checkTerm reports an unknown term or term attribute and returns whether the
// referenced term exists.
func (v *validator) checkTerm(from string, ref *syntax.TermReference) bool {
	term, ok := v.bundle.term(ref.ID.Name)
	if !ok {
		v.unknown(from, ref.Name(), UnknownTerm,
			fmt.Sprintf("term %q referenced by %q does not exist",
				syntax.TermSigil+ref.ID.Name, from),
			v.suggest(ref.ID.Name, v.termIDs(), syntax.TermSigil))

		return false
	}

	if ref.Attribute != nil && term.Attribute(ref.Attribute.Name) == nil {
		v.unknown(from, ref.Name(), UnknownAttribute,
			fmt.Sprintf("term %q has no attribute %q",
				syntax.TermSigil+ref.ID.Name, ref.Attribute.Name),
			v.suggest(ref.Attribute.Name, attributeNames(term.Attributes), ""))
	}

	return true
}

func (v *validator) unknown(from, ref string, kind ValidationKind, msg, suggestion string) {
	k := refKey{identifier: from, reference: ref, kind: kind}
	if v.seen[k] {
		return
	}

	v.seen[k] = true

	v.report(&ValidationError{
		Kind:       kind,
		Message:    msg,
		Identifier: from,
		Reference:  ref,
		Suggestion: suggestion,
	})
}

func (v *validator) termIDs() []string {
	var ids []string

	for _, key := range v.keys {
		if name, ok := strings.CutPrefix(key, syntax.TermSigil); ok {
			ids = append(ids, name)
		}
	}

	return ids
}

// suggest returns the candidate that best fuzzy-matches name, with prefix
// prepended, or the empty string. When name is not a subsequence of any
// candidate, a candidate that is a subsequence of name is accepted instead
// (e.g. "hello" for "helloo").
func (v *validator) suggest(name string, candidates []string, prefix string) string {
	if len(candidates) == 0 {
		return ""
	}

	if matches := fuzzy.Find(name, candidates); len(matches) > 0 {
		return prefix + matches[0].Str
	}

	best, bestScore := "", 0

	for _, c := range candidates {
		m := fuzzy.Find(c, []string{name})
		if len(m) > 0 && (best == "" || m[0].Score > bestScore) {
			best, bestScore = c, m[0].Score
		}
	}

	if best == "" {
		return ""
	}

	return prefix + best
}

func attributeNames(attrs []*syntax.Attribute) []string {
	names := make([]string, 0, len(attrs))

	for _, a := range attrs {
		names = append(names, a.ID.Name)
	}

	return names
}

// Node colors of the cycle search.
const (
	white = iota
	grey
	black
)

// cycles reports each back edge of the reference graph found by a depth-first
// search starting from every entry in sorted key order.
func (v *validator) cycles(adj map[string][]string) {
	type frame struct {
		node string
		next int
	}

	color := make(map[string]int, len(adj))

	for _, start := range v.keys {
		if color[start] != white {
			continue
		}

		color[start] = grey
		stack := []frame{{node: start}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := adj[top.node]

			if top.next >= len(edges) {
				color[top.node] = black
				stack = stack[:len(stack)-1]

				continue
			}

			next := edges[top.next]
			top.next++

			switch color[next] {
			case white:
				color[next] = grey
				stack = append(stack, frame{node: next})
			case grey:
				path := make([]string, 0, len(stack)+1)

				for i := len(stack) - 1; i >= 0; i-- {
					path = append(path, stack[i].node)
					if stack[i].node == next {
						break
					}
				}

				slices.Reverse(path)
				path = append(path, next)

				v.report(&ValidationError{
					Kind:       CyclicReference,
					Message:    "cyclic reference: " + strings.Join(path, " -> "),
					Identifier: next,
					Reference:  stack[len(stack)-1].node,
				})
			}
		}
	}
}

// walkEntry calls fn for every expression in the value and attributes of a
// message or term, including selectors, variant values and call arguments.
func walkEntry(e syntax.Entry, fn func(syntax.Expression)) {
	var (
		value *syntax.Pattern
		attrs []*syntax.Attribute
	)

	switch e := e.(type) {
	case *syntax.Message:
		value, attrs = e.Value, e.Attributes
	case *syntax.Term:
		value, attrs = e.Value, e.Attributes
	default:
		return
	}

	walkPattern(value, fn)

	for _, a := range attrs {
		walkPattern(a.Value, fn)
	}
}

func walkPattern(p *syntax.Pattern, fn func(syntax.Expression)) {
	if p == nil {
		return
	}

	for _, el := range p.Elements {
		if pl, ok := el.(*syntax.Placeable); ok {
			walkExpression(pl.Expression, fn)
		}
	}
}

func walkExpression(expr syntax.Expression, fn func(syntax.Expression)) {
	fn(expr)

	switch e := expr.(type) {
	case *syntax.Placeable:
		walkExpression(e.Expression, fn)
	case *syntax.SelectExpression:
		walkExpression(e.Selector, fn)

		for _, variant := range e.Variants {
			walkPattern(variant.Value, fn)
		}
	case *syntax.TermReference:
		walkArguments(e.Arguments, fn)
	case *syntax.FunctionReference:
		walkArguments(e.Arguments, fn)
	}
}

func walkArguments(args *syntax.CallArguments, fn func(syntax.Expression)) {
	if args == nil {
		return
	}

	for _, arg := range args.Positional {
		walkExpression(arg, fn)
	}

	for _, arg := range args.Named {
		walkExpression(arg.Value, fn)
	}
}
