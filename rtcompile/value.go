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

// valueKind tags the inhabited case of a parseValue. This is the tagged
// variant that flows Shift/Reduce results through the grammar, playing the
// role the teacher's boxed Scmer plays for its parser (see packrat.go's
// ExtractScmer): each production's reduce pattern-matches its own
// right-hand-side shape rather than a caller casting an "any".
type valueKind uint8

const (
	vNone valueKind = iota
	vIdent
	vInt
	vFloat
	vDeclFlags
	vName      // an expression's result name (temp or variable), or an lvalue's canonical name
	vTowerStep // one repetition step of a precedence-tower list: {op symbol, operand}
	vList      // a Kleene/Many repetition, unpacked into its element values
)

// parseValue is the semantic value produced by Shift/Reduce.
type parseValue struct {
	kind    valueKind
	text    string // identifier text, expression/lvalue name, or operator symbol
	i       int64
	f       float64
	b       bool // declaration flags: is_const
	operand *parseValue
	list    []parseValue
}

func nameValue(name string) parseValue { return parseValue{kind: vName, text: name} }
