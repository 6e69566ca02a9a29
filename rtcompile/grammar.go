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
	"strconv"
	"strings"
	"sync"

	packrat "github.com/launix-de/go-packrat"
	regexp "github.com/wasilibs/go-re2"
)

// commentSkipper absorbs whitespace and C-style block comments between
// tokens, the same convention as the teacher's
// packrat.SkipWhitespaceAndCommentsRegex (scm/packrat.go), reimplemented
// here so the grammar owns its own skip rule instead of depending on the
// interpreter-flavored default.
var commentSkipper = regexp.MustCompile(`(?:/\*[\s\S]*?\*/|[ \t\r\n]+)+`)

// atom builds a punctuator/operator leaf: an exact literal, no semantic
// payload beyond identifying which literal matched.
func atom(text string) *tokenParser {
	return &tokenParser{
		name: text,
		root: packrat.NewAtomParser(text, false, true),
		shift: func(l *lowerState, matched string) parseValue {
			return parseValue{kind: vIdent, text: text}
		},
	}
}

// keyword builds a reserved-word leaf. The trailing \b keeps "double" from
// swallowing the front of an identifier like "doubling" (\b is a plain
// boundary assertion in RE2 syntax, not a lookaround).
func keyword(word string) *tokenParser {
	return &tokenParser{
		name: word,
		root: packrat.NewRegexParser(word+`\b`, false, true),
		shift: func(l *lowerState, matched string) parseValue {
			return parseValue{kind: vIdent, text: word}
		},
	}
}

var (
	tokLParen  = atom("(")
	tokRParen  = atom(")")
	tokLBrace  = atom("{")
	tokRBrace  = atom("}")
	tokLBrack  = atom("[")
	tokRBrack  = atom("]")
	tokSemi    = atom(";")
	tokComma   = atom(",")
	tokAssign  = atom("=")
	tokAmp     = atom("&")
	tokPlus    = atom("+")
	tokMinus   = atom("-")
	tokStar    = atom("*")
	tokSlash   = atom("/")
	tokCaret   = atom("^")
	tokEq      = atom("==")
	tokNe      = atom("!=")
	tokLe      = atom("<=")
	tokLt      = atom("<")
	tokGe      = atom(">=")
	tokGt      = atom(">")
	tokOr      = atom("||")
	tokAnd     = atom("&&")
	tokNot     = atom("!")
	kwDouble   = keyword("double")
	kwConst    = keyword("const")
	kwVoid     = keyword("void")
	kwIf       = keyword("if")
)

// kwElse has a side effect on Shift, per spec §4.2: shifting "else" flips
// the active conditional guard in place, before the else-block's statements
// are lowered.
var kwElse = &tokenParser{
	name: "else",
	root: packrat.NewRegexParser(`else\b`, false, true),
	shift: func(l *lowerState, matched string) parseValue {
		l.shiftElse()
		return parseValue{kind: vIdent, text: "else"}
	},
}

var tokIdent = &tokenParser{
	name: "identifier",
	root: packrat.NewRegexParser(`[_A-Za-z][_A-Za-z0-9]*`, false, true),
	shift: func(l *lowerState, matched string) parseValue {
		return parseValue{kind: vIdent, text: strings.TrimRight(matched, " \t\r\n")}
	},
}

// tokFloat requires a decimal point or an exponent (or both) after the
// integer prefix, so it never matches a bare integer literal; the grammar
// tries it before tokInt at every literal position (spec §4.1).
var tokFloat = &tokenParser{
	name: "float",
	root: packrat.NewRegexParser(`(?:0|[1-9][0-9]*)(?:\.[0-9]*(?:[eE][+-]?[0-9]+)?|[eE][+-]?[0-9]+)`, false, true),
	shift: func(l *lowerState, matched string) parseValue {
		f, err := strconv.ParseFloat(strings.TrimSpace(matched), 64)
		if err != nil {
			panic(&LexError{Msg: "bad floating-point literal " + strconv.Quote(matched)})
		}
		return parseValue{kind: vFloat, f: f}
	},
}

var tokInt = &tokenParser{
	name: "int",
	root: packrat.NewRegexParser(`0|[1-9][0-9]*`, false, true),
	shift: func(l *lowerState, matched string) parseValue {
		i, err := strconv.ParseInt(strings.TrimSpace(matched), 10, 64)
		if err != nil {
			panic(&LexError{Msg: "bad integer literal " + strconv.Quote(matched)})
		}
		return parseValue{kind: vInt, i: i}
	},
}

var arithOpcodes = map[string]Opcode{
	"+": OpAdd, "-": OpSubtract, "*": OpMultiply, "/": OpDivide,
}
var relOpcodes = map[string]Opcode{
	"==": OpEqual, "!=": OpNotEqual, "<": OpLess, "<=": OpLessOrEqual,
	">": OpGreater, ">=": OpGreaterOrEqual,
}

// foldTower left-folds a precedence-tower repetition (spec §4.2.1): each
// step in rhs (a vList of vTowerStep values) combines with the running
// accumulator through the opcode its operator symbol maps to.
func foldTower(l *lowerState, first parseValue, steps parseValue, ops map[string]Opcode) parseValue {
	acc := first
	for _, step := range steps.list {
		op, ok := ops[step.text]
		if !ok {
			panic("rtcompile: internal error: unknown tower operator " + step.text)
		}
		acc = l.binary(op, acc, *step.operand)
	}
	return acc
}

// towerStep builds a production for one "(op next)" repetition element: the
// operator token followed by the next precedence level.
func towerStep(name string, opToken *tokenParser, next packrat.Parser) *production {
	return seq(name, func(l *lowerState, rhs []parseValue) parseValue {
		operand := rhs[1]
		return parseValue{kind: vTowerStep, text: rhs[0].text, operand: &operand}
	}, opToken, next)
}

var grammarOnce sync.Once
var cachedGrammar packrat.Parser

// grammarRoot lazily builds the full grammar once and caches it, matching
// spec §5's single-initialization requirement for process-wide parser
// tables (mirroring the teacher's lazily-built, immutable-after-construction
// global parser objects, scm/packrat.go's init_parser).
func grammarRoot() packrat.Parser {
	grammarOnce.Do(func() {
		cachedGrammar = buildGrammar()
	})
	return cachedGrammar
}

func buildGrammar() packrat.Parser {
	// ---- expressions (immutable) ----
	// mutable := IDENT "[" INT "]" | IDENT
	mutableArray := seq("mutable-array", func(l *lowerState, rhs []parseValue) parseValue {
		return nameValue(rhs[0].text + "[" + strconv.FormatInt(rhs[2].i, 10) + "]")
	}, tokIdent, tokLBrack, tokInt, tokRBrack)
	mutableScalar := seq("mutable-scalar", func(l *lowerState, rhs []parseValue) parseValue {
		return nameValue(rhs[0].text)
	}, tokIdent)
	mutable := packrat.NewOrParser(mutableArray, mutableScalar)

	// leaf := FLOAT | INT | IDENT "(" immutable "," immutable ")" | IDENT "(" immutable ")" | mutable | "(" immutable ")"
	litFloat := seq("lit-float", func(l *lowerState, rhs []parseValue) parseValue {
		return l.constant(rhs[0].f)
	}, tokFloat)
	litInt := seq("lit-int", func(l *lowerState, rhs []parseValue) parseValue {
		return l.constant(float64(rhs[0].i))
	}, tokInt)

	callBinary := &production{name: "call-binary"}
	callUnary := &production{name: "call-unary"}
	parenExpr := &production{name: "paren-expr"}

	leaf := packrat.NewOrParser(litFloat, litInt, callBinary, callUnary, mutable, parenExpr)

	// exp := leaf ("^" leaf)?  -- explicitly non-associative, single level
	expPair := seq("exp-pair", func(l *lowerState, rhs []parseValue) parseValue {
		return rhs[1]
	}, tokCaret, leaf)
	expProd := seq("exp", func(l *lowerState, rhs []parseValue) parseValue {
		if rhs[1].kind == vNone {
			return rhs[0]
		}
		return l.binary(OpPow, rhs[0], rhs[1])
	}, leaf, packrat.NewMaybeParser(expPair))

	// unary := "-" exp | exp
	unaryNeg := seq("unary-neg", func(l *lowerState, rhs []parseValue) parseValue {
		return l.unary(OpNegate, rhs[1])
	}, tokMinus, expProd)
	unary := packrat.NewOrParser(unaryNeg, expProd)

	// product := unary (("*"|"/") unary)*
	productMulStep := towerStep("product-mul", tokStar, unary)
	productDivStep := towerStep("product-div", tokSlash, unary)
	productStep := packrat.NewOrParser(productMulStep, productDivStep)
	product := seq("product", func(l *lowerState, rhs []parseValue) parseValue {
		return foldTower(l, rhs[0], rhs[1], arithOpcodes)
	}, unary, packrat.NewKleeneParser(productStep, packrat.NewEmptyParser()))

	// sum := product (("+"|"-") product)*
	sumAddStep := towerStep("sum-add", tokPlus, product)
	sumSubStep := towerStep("sum-sub", tokMinus, product)
	sumStep := packrat.NewOrParser(sumAddStep, sumSubStep)
	sum := seq("sum", func(l *lowerState, rhs []parseValue) parseValue {
		return foldTower(l, rhs[0], rhs[1], arithOpcodes)
	}, product, packrat.NewKleeneParser(sumStep, packrat.NewEmptyParser()))

	immutable := sum

	// now that `immutable` exists, wire the forward-referenced leaf productions
	callBinary.root = packrat.NewAndParser(tokIdent, tokLParen, immutable, tokComma, immutable, tokRParen)
	callBinary.reduce = func(l *lowerState, rhs []parseValue) parseValue {
		name := rhs[0].text
		if name != "pow" {
			panic(&UnknownFunctionError{Name: name})
		}
		return l.binary(OpPow, rhs[2], rhs[4])
	}
	callUnary.root = packrat.NewAndParser(tokIdent, tokLParen, immutable, tokRParen)
	callUnary.reduce = func(l *lowerState, rhs []parseValue) parseValue {
		name := rhs[0].text
		op, ok := map[string]Opcode{"sqrt": OpSqrt, "sin": OpSin, "cos": OpCos, "exp": OpExp}[name]
		if !ok {
			panic(&UnknownFunctionError{Name: name})
		}
		return l.unary(op, rhs[2])
	}
	parenExpr.root = packrat.NewAndParser(tokLParen, immutable, tokRParen)
	parenExpr.reduce = func(l *lowerState, rhs []parseValue) parseValue {
		return rhs[1]
	}

	// ---- boolean expressions ----
	relOpToken := packrat.NewOrParser(tokEq, tokNe, tokLe, tokLt, tokGe, tokGt)
	relational := seq("relational", func(l *lowerState, rhs []parseValue) parseValue {
		op, ok := relOpcodes[rhs[1].text]
		if !ok {
			panic("rtcompile: internal error: unknown relational operator " + rhs[1].text)
		}
		return l.binary(op, rhs[0], rhs[2])
	}, immutable, relOpToken, immutable)

	notProd := &production{name: "not"}
	notNeg := seq("not-neg", func(l *lowerState, rhs []parseValue) parseValue {
		return l.unary(OpLogicalNot, rhs[1])
	}, tokNot, notProd)
	notProd.root = packrat.NewOrParser(notNeg, relational)
	notProd.reduce = func(l *lowerState, rhs []parseValue) parseValue { return rhs[0] }

	andStep := towerStep("and-step", tokAnd, notProd)
	andProd := seq("and", func(l *lowerState, rhs []parseValue) parseValue {
		return foldTower(l, rhs[0], rhs[1], map[string]Opcode{"&&": OpLogicalAnd})
	}, notProd, packrat.NewKleeneParser(andStep, packrat.NewEmptyParser()))

	orStep := towerStep("or-step", tokOr, andProd)
	boolean := seq("or", func(l *lowerState, rhs []parseValue) parseValue {
		return foldTower(l, rhs[0], rhs[1], map[string]Opcode{"||": OpLogicalOr})
	}, andProd, packrat.NewKleeneParser(orStep, packrat.NewEmptyParser()))

	// ---- declarations ----
	// declspec := ("const" "double") | ("double" "const") | "double"
	declSpecCD := seq("declspec-cd", func(l *lowerState, rhs []parseValue) parseValue {
		return parseValue{kind: vDeclFlags, b: true}
	}, kwConst, kwDouble)
	declSpecDC := seq("declspec-dc", func(l *lowerState, rhs []parseValue) parseValue {
		return parseValue{kind: vDeclFlags, b: true}
	}, kwDouble, kwConst)
	declSpecD := seq("declspec-d", func(l *lowerState, rhs []parseValue) parseValue {
		return parseValue{kind: vDeclFlags, b: false}
	}, kwDouble)
	declSpec := packrat.NewOrParser(declSpecCD, declSpecDC, declSpecD)

	// ---- parameters ----
	// param := declspec IDENT "[" INT "]" | declspec IDENT | "double" "&" IDENT
	paramArray := seq("param-array", func(l *lowerState, rhs []parseValue) parseValue {
		l.addArrayParam(rhs[1].text, rhs[3].i, rhs[0].b)
		return parseValue{kind: vNone}
	}, declSpec, tokIdent, tokLBrack, tokInt, tokRBrack)
	paramOutputScalar := seq("param-output-scalar", func(l *lowerState, rhs []parseValue) parseValue {
		l.addOutputScalar(rhs[2].text)
		return parseValue{kind: vNone}
	}, kwDouble, tokAmp, tokIdent)
	paramInputScalar := seq("param-input-scalar", func(l *lowerState, rhs []parseValue) parseValue {
		l.addInputScalar(rhs[1].text)
		return parseValue{kind: vNone}
	}, declSpec, tokIdent)
	param := packrat.NewOrParser(paramArray, paramOutputScalar, paramInputScalar)
	paramList := packrat.NewKleeneParser(param, tokComma)

	// ---- statements ----
	stmtList := &production{name: "stmt-list"}

	assignment := seq("assignment", func(l *lowerState, rhs []parseValue) parseValue {
		l.assign(rhs[0].text, rhs[2])
		return parseValue{kind: vNone}
	}, mutable, tokAssign, immutable, tokSemi)

	declInit := seq("decl-init", func(l *lowerState, rhs []parseValue) parseValue {
		l.assign(rhs[1].text, rhs[3])
		return parseValue{kind: vNone}
	}, declSpec, tokIdent, tokAssign, immutable, tokSemi)

	bareDeclArray := seq("bare-decl-array", func(l *lowerState, rhs []parseValue) parseValue {
		return parseValue{kind: vNone} // pure type annotation, no instructions
	}, declSpec, tokIdent, tokLBrack, tokInt, tokRBrack, tokSemi)

	bareDeclScalar := seq("bare-decl-scalar", func(l *lowerState, rhs []parseValue) parseValue {
		return parseValue{kind: vNone}
	}, declSpec, tokIdent, tokSemi)

	ifHeader := seq("if-header", func(l *lowerState, rhs []parseValue) parseValue {
		l.beginIf(rhs[2], Pos{})
		return parseValue{kind: vNone}
	}, kwIf, tokLParen, boolean, tokRParen)

	elseClause := seq("else-clause", func(l *lowerState, rhs []parseValue) parseValue {
		return parseValue{kind: vNone}
	}, kwElse, tokLBrace, stmtList, tokRBrace)

	ifStmt := seq("if-stmt", func(l *lowerState, rhs []parseValue) parseValue {
		l.endIf()
		return parseValue{kind: vNone}
	},
		ifHeader, tokLBrace, stmtList, tokRBrace,
		packrat.NewMaybeParser(elseClause),
	)

	stmt := packrat.NewOrParser(assignment, declInit, bareDeclArray, bareDeclScalar, ifStmt)
	stmtList.root = packrat.NewKleeneParser(stmt, packrat.NewEmptyParser())
	stmtList.reduce = func(l *lowerState, rhs []parseValue) parseValue { return parseValue{kind: vNone} }

	// ---- top level ----
	// program := "void" IDENT "(" paramlist ")" "{" stmtlist "}"
	program := seq("program", func(l *lowerState, rhs []parseValue) parseValue {
		return parseValue{kind: vNone}
	}, kwVoid, tokIdent, tokLParen, paramList, tokRParen, tokLBrace, stmtList, tokRBrace)

	return packrat.NewAndParser(program, packrat.NewEndParser(true))
}
