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

import (
	"fmt"

	packrat "github.com/launix-de/go-packrat"
)

// tokenParser wraps a leaf packrat.Parser (an atom or regex matcher) and
// plays the role of the generic parser generator's Shift hook (spec §6):
// on a successful match it turns the raw matched text into a parseValue.
// This generalizes the teacher's *ScmParserVariable (packrat.go), which
// captures a raw match for later use by a generator expression; here the
// "generator" is a typed Go closure instead of a Scheme form.
type tokenParser struct {
	name  string
	root  packrat.Parser
	shift func(l *lowerState, text string) parseValue
}

func (t *tokenParser) Match(s *packrat.Scanner) *packrat.Node {
	m := t.root.Match(s)
	if m == nil {
		return nil
	}
	return &packrat.Node{Matched: m.Matched, Start: m.Start, Parser: t, Children: nil}
}

func (t *tokenParser) String() string { return t.name }

// production wraps a packrat.Parser assembled from an AndParser sequence and
// plays the role of the generic parser generator's Reduce hook: once the
// sequence matches, reduce is invoked with one parseValue per right-hand-side
// symbol, in order -- the same shape as an LALR reduce action's $1 $2 $3....
// This generalizes the teacher's *ScmParser+Generator pair (packrat.go),
// which evaluates a captured Scheme expression against named variables;
// here the "generator" is a typed Go closure that also appends
// NamedInstructions to the shared lowerState.
type production struct {
	name   string
	root   packrat.Parser
	reduce func(l *lowerState, rhs []parseValue) parseValue
}

func (p *production) Match(s *packrat.Scanner) *packrat.Node {
	m := p.root.Match(s)
	if m == nil {
		return nil
	}
	return &packrat.Node{Matched: m.Matched, Start: m.Start, Parser: p, Children: []*packrat.Node{m}}
}

func (p *production) String() string { return p.name }

// seq builds an AndParser-backed production: a fixed sequence of symbols
// reduced together in one action.
func seq(name string, reduce func(l *lowerState, rhs []parseValue) parseValue, symbols ...packrat.Parser) *production {
	return &production{name: name, root: packrat.NewAndParser(symbols...), reduce: reduce}
}

// extract walks a packrat parse tree bottom-up, invoking the Shift hook at
// every tokenParser leaf and the Reduce hook at every production node. Plain
// combinator nodes (Or/Maybe/Kleene/Many) that were never wrapped in a
// production pass their matched value straight through, mirroring the
// teacher's ExtractScmer (packrat.go).
func extract(n *packrat.Node, l *lowerState) parseValue {
	switch p := n.Parser.(type) {
	case *tokenParser:
		return p.shift(l, n.Matched)
	case *production:
		return p.reduce(l, extractChildren(n.Children[0], l))
	case *packrat.OrParser:
		return extract(n.Children[0], l)
	case *packrat.MaybeParser:
		if len(n.Children) == 0 {
			return parseValue{kind: vNone}
		}
		return extract(n.Children[0], l)
	case *packrat.KleeneParser, *packrat.ManyParser:
		return flattenRepetition(n, l)
	}
	if len(n.Children) == 1 {
		return extract(n.Children[0], l)
	}
	panic(fmt.Sprintf("rtcompile: internal error: cannot extract value from bare node %T with %d children", n.Parser, len(n.Children)))
}

// flattenRepetition builds a vList value out of a Kleene/Many match, taking
// every other child (odd positions hold the separator match, even when the
// separator is the empty parser) -- the same convention the teacher's
// ExtractScmer uses for KleeneParser/ManyParser.
func flattenRepetition(n *packrat.Node, l *lowerState) parseValue {
	items := make([]parseValue, 0, len(n.Children)/2+1)
	for i := 0; i < len(n.Children); i += 2 {
		items = append(items, extract(n.Children[i], l))
	}
	return parseValue{kind: vList, list: items}
}

// extractChildren extracts the value of every direct child of an
// AndParser-produced node, in order -- the $1..$N of a production's
// right-hand side. A Kleene/Many node passed here (a production whose whole
// root is a bare repetition, no surrounding AndParser) is treated as a
// single already-flattened rhs element instead.
func extractChildren(n *packrat.Node, l *lowerState) []parseValue {
	switch n.Parser.(type) {
	case *packrat.KleeneParser, *packrat.ManyParser:
		return []parseValue{flattenRepetition(n, l)}
	}
	if len(n.Children) == 0 {
		return nil
	}
	vals := make([]parseValue, 0, len(n.Children))
	for _, c := range n.Children {
		vals = append(vals, extract(c, l))
	}
	return vals
}

// parse runs the cached grammar over source and returns the fully lowered
// instruction sequence and declared parameter names. Errors raised by
// Shift/Reduce actions (NestedIfError, UnknownFunctionError, ...) and by the
// packrat scanner itself surface as a returned error, never a panic, to the
// caller of Compile.
func parse(source string, verbose bool) (l *lowerState, err error) {
	defer func() {
		if r := recover(); r != nil {
			if asErr, ok := r.(error); ok {
				err = asErr
				return
			}
			err = &ParseError{Msg: fmt.Sprint(r)}
		}
	}()

	root := grammarRoot()
	scanner := packrat.NewScanner(source, commentSkipper)
	node, perr := packrat.Parse(root, scanner)
	if perr != nil {
		return nil, &ParseError{Msg: perr.Error()}
	}

	l = &lowerState{verbose: verbose}
	// node is the raw AndParser(program, $) match; its first child is the
	// program production's own node, wrapped with Parser set to that
	// *production by production.Match -- extract it directly rather than
	// through extractChildren, since we don't need a value for the trailing
	// end-of-input marker.
	extract(node.Children[0], l)
	return l, nil
}
