package bundle

import (
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/ftl/syntax"
)

// RequiredVariables returns the sorted names of the variables that
// formatting id may read, found statically. It follows every select branch
// and every message and term reference. Variables bound by named arguments
// of a term call are not required by that call.
func (b *Bundle) RequiredVariables(id string) ([]string, error) {
	p, err := b.lookup(id)
	if err != nil {
		return nil, err
	}

	c := collector{
		bundle:  b,
		names:   make(map[string]struct{}),
		visited: make(map[visit]bool),
	}

	c.pattern(p, nil)

	return slices.Sorted(maps.Keys(c.names)), nil
}

type collector struct {
	bundle  *Bundle
	names   map[string]struct{}
	visited map[visit]bool
}

// visit identifies a pattern walked with a particular set of bound names.
type visit struct {
	pattern *syntax.Pattern
	bound   string
}

func (c *collector) pattern(p *syntax.Pattern, bound map[string]bool) {
	if p == nil {
		return
	}

	key := visit{pattern: p, bound: strings.Join(slices.Sorted(maps.Keys(bound)), ",")}
	if c.visited[key] {
		return
	}

	c.visited[key] = true

	for _, el := range p.Elements {
		if pl, ok := el.(*syntax.Placeable); ok {
			c.expression(pl.Expression, bound)
		}
	}
}

func (c *collector) expression(expr syntax.Expression, bound map[string]bool) {
	switch e := expr.(type) {
	case *syntax.VariableReference:
		if !bound[e.ID.Name] {
			c.names[e.ID.Name] = struct{}{}
		}
	case *syntax.MessageReference:
		msg, ok := c.bundle.message(e.ID.Name)
		if !ok {
			return
		}

		if e.Attribute == nil {
			c.pattern(msg.Value, bound)
		} else if a := msg.Attribute(e.Attribute.Name); a != nil {
			c.pattern(a.Value, bound)
		}
	case *syntax.TermReference:
		term, ok := c.bundle.term(e.ID.Name)
		if !ok {
			return
		}

		if e.Arguments != nil && len(e.Arguments.Named) > 0 {
			bound = maps.Clone(bound)
			if bound == nil {
				bound = make(map[string]bool, len(e.Arguments.Named))
			}

			for _, arg := range e.Arguments.Named {
				bound[arg.Name.Name] = true
			}
		}

		if e.Attribute == nil {
			c.pattern(term.Value, bound)
		} else if a := term.Attribute(e.Attribute.Name); a != nil {
			c.pattern(a.Value, bound)
		}
	case *syntax.FunctionReference:
		if e.Arguments == nil {
			return
		}

		for _, arg := range e.Arguments.Positional {
			c.expression(arg, bound)
		}
	case *syntax.SelectExpression:
		c.expression(e.Selector, bound)

		for _, v := range e.Variants {
			c.pattern(v.Value, bound)
		}
	case *syntax.Placeable:
		c.expression(e.Expression, bound)
	}
}
