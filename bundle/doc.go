// Package bundle merges parsed resources into a queryable set of messages
// and formats them with runtime variables.
//
// A [Bundle] is built once from ordered sources by [New]. Sources are parsed
// independently and merged by identifier, so a later source overrides an
// earlier one. The merged bundle is then validated for duplicate
// definitions, unknown references and reference cycles.
//
//	b, err := bundle.New("en-US", []bundle.Source{
//		{Name: "base.ftl", Text: "hello = Hello, { $name }!\n"},
//	})
//	if err != nil {
//		return err
//	}
//
//	out, errs, err := b.Format("hello", map[string]any{"name": "Bob"})
//
// # Diagnostics
//
// Load-time problems are kept on the bundle and exposed by
// [Bundle.ParseErrors], [Bundle.ValidationErrors] and [Bundle.CompileErrors].
// [WithStrict] turns the first of them into an error from [New] instead.
//
// Formatting never aborts once the requested message is found. A missing
// variable, an unknown reference or a failing function is reported as a
// [*FormatError] and replaced in the output by a visible placeholder.
//
// # Plurals
//
// Numeric selectors first match variant keys by value, then by the plural
// category chosen by the bundle's [PluralRules]. The default rules come from
// the CLDR data in golang.org/x/text.
package bundle
