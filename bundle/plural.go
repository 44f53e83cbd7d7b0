package bundle

import (
	"sync"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// Category is a CLDR plural category name, used as a variant key.
type Category string

const (
	CategoryZero  Category = "zero"
	CategoryOne   Category = "one"
	CategoryTwo   Category = "two"
	CategoryFew   Category = "few"
	CategoryMany  Category = "many"
	CategoryOther Category = "other"
)

// PluralRules maps a number to its plural category in a language.
// The language tag is passed through exactly as given to [New].
type PluralRules interface {
	Category(lang string, n Number) Category
}

// PluralFunc adapts a function to [PluralRules].
type PluralFunc func(lang string, n Number) Category

// Category calls f.
func (f PluralFunc) Category(lang string, n Number) Category { return f(lang, n) }

// CLDRPlurals is the default [PluralRules], backed by the cardinal rules of
// golang.org/x/text. Unknown tags fall back to the rules of their closest
// known parent, or "other" for everything.
type CLDRPlurals struct {
	tags sync.Map // string -> language.Tag
}

// Category implements [PluralRules].
func (c *CLDRPlurals) Category(lang string, n Number) Category {
	i, v, w, f, t := n.operands()

	return categoryOf(plural.Cardinal.MatchPlural(c.tag(lang), i, v, w, f, t))
}

func (c *CLDRPlurals) tag(lang string) language.Tag {
	if t, ok := c.tags.Load(lang); ok {
		return t.(language.Tag)
	}

	// Make never fails; malformed tags become language.Und.
	t := language.Make(lang)
	c.tags.Store(lang, t)

	return t
}

func categoryOf(form plural.Form) Category {
	switch form {
	case plural.Zero:
		return CategoryZero
	case plural.One:
		return CategoryOne
	case plural.Two:
		return CategoryTwo
	case plural.Few:
		return CategoryFew
	case plural.Many:
		return CategoryMany
	default:
		return CategoryOther
	}
}
