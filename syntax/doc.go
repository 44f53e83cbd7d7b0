// Package syntax parses localization resources into an abstract syntax tree.
//
// A resource is a sequence of entries:
//
//	# Comments start with one to three hash signs.
//	-brand = Firefox
//	    .gender = masculine
//
//	welcome = Welcome to { -brand }, { $user }!
//	emails = { $count ->
//	    [one] You have one new email.
//	   *[other] You have { $count } new emails.
//	}
//	login-input = Predefined value
//	    .placeholder = email@example.com
//
// Messages are public, terms (prefixed with "-") are private fragments that
// messages reference. Values continue over indented lines, and the common
// indentation of continuation lines is removed.
//
// # Error Recovery
//
// [Parse] never gives up on a whole resource. A malformed entry is stored
// as [*Junk] and reported as a [*ParseError]; parsing resumes at the next line
// beginning with a letter, "-", or "#". One broken message therefore never
// hides the rest of a file.
//
// Nesting of placeables and call arguments is bounded by [WithMaxDepth].
package syntax
