/*
Copyright (C) 2026  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package rtcompile

import "fmt"

// Pos is a source location, used to annotate compile errors.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.Line == 0 {
		return "?"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LexError means a numeric literal matched by the grammar in grammar.go
// could not be converted (for example an integer literal outside the int64
// range). The grammar is scannerless, so input that does not tokenize is not
// reported as a LexError; it surfaces as a ParseError.
type LexError struct {
	At  Pos
	Msg string
}

func (e *LexError) Error() string { return fmt.Sprintf("lex error at %s: %s", e.At, e.Msg) }

// ParseError means the token stream did not parse under the grammar.
type ParseError struct {
	At  Pos
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error at %s: %s", e.At, e.Msg) }

// NestedIfError means an if-reduction was found nested inside another
// still-active conditional. Only one level of if/else is supported.
type NestedIfError struct {
	At Pos
}

func (e *NestedIfError) Error() string {
	return fmt.Sprintf("nested if at %s: only one level of if/else is supported", e.At)
}

// UnknownFunctionError means a call expression named an identifier that is
// not one of the built-in unary/binary functions.
type UnknownFunctionError struct {
	At   Pos
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q at %s", e.Name, e.At)
}

// MissingOutputError means a declared output parameter has no live range
// whose last read reaches the end of the function body.
type MissingOutputError struct {
	Name string
}

func (e *MissingOutputError) Error() string {
	return fmt.Sprintf("output parameter %q is never written", e.Name)
}
