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
	"log"
)

// lowerState is the mutable compiler state threaded through every Reduce
// call: the running instruction list, the declared parameter names, and the
// single-level if/else desugaring flags. There is exactly one lowerState per
// compile() call; it is never shared across goroutines.
type lowerState struct {
	Instructions []NamedInstruction
	InputNames   []string
	OutputNames  []string

	tempCounter int

	insideConditional bool
	conditionName     string

	verbose bool
}

func (l *lowerState) trace(format string, args ...any) {
	if l.verbose {
		log.Printf("rtcompile: "+format, args...)
	}
}

func (l *lowerState) newTemp() string {
	l.tempCounter++
	return fmt.Sprintf("tmp%d", l.tempCounter)
}

func (l *lowerState) emit(op Opcode, result, left, right string, constant float64) {
	l.Instructions = append(l.Instructions, NamedInstruction{
		Opcode:     op,
		ResultName: result,
		LeftName:   left,
		RightName:  right,
		Constant:   constant,
	})
	l.trace("emit %-16s result=%-8s left=%-8s right=%-8s const=%v", op, result, left, right, constant)
}

// binary lowers a two-operand interior node: allocate a fresh temporary,
// append one instruction, return the temporary as the node's value.
func (l *lowerState) binary(op Opcode, left, right parseValue) parseValue {
	t := l.newTemp()
	l.emit(op, t, left.text, right.text, 0)
	return nameValue(t)
}

// unary lowers a one-operand interior node the same way.
func (l *lowerState) unary(op Opcode, operand parseValue) parseValue {
	t := l.newTemp()
	l.emit(op, t, operand.text, "", 0)
	return nameValue(t)
}

func (l *lowerState) constant(value float64) parseValue {
	t := l.newTemp()
	l.emit(OpAssignConstant, t, "", "", value)
	return nameValue(t)
}

// assign lowers `lhs = rhs` (also used for declaration-with-init, which is
// semantically identical). Inside a conditional it becomes a guarded
// conditional_copy instead of an unconditional copy.
func (l *lowerState) assign(lhsName string, rhs parseValue) {
	if l.insideConditional {
		l.emit(OpConditionalCopy, lhsName, l.conditionName, rhs.text, 0)
	} else {
		l.emit(OpCopy, lhsName, rhs.text, "", 0)
	}
}

// beginIf records the boolean guard of a single if/if-else statement. Only
// one level of conditional is supported; a second beginIf while already
// inside one is a NestedIfError.
func (l *lowerState) beginIf(cond parseValue, at Pos) {
	if l.insideConditional {
		panic(&NestedIfError{At: at})
	}
	l.insideConditional = true
	l.conditionName = cond.text
}

// shiftElse flips the guard for the else-branch in place: subsequent
// conditional_copy instructions in the else block read the negated value
// under the same condition name.
func (l *lowerState) shiftElse() {
	l.emit(OpLogicalNot, l.conditionName, l.conditionName, "", 0)
}

func (l *lowerState) endIf() {
	l.insideConditional = false
	l.conditionName = ""
}

func (l *lowerState) addInputScalar(name string) {
	l.InputNames = append(l.InputNames, name)
}

func (l *lowerState) addOutputScalar(name string) {
	l.OutputNames = append(l.OutputNames, name)
}

func (l *lowerState) addArrayParam(name string, length int64, isConst bool) {
	for i := int64(0); i < length; i++ {
		slot := fmt.Sprintf("%s[%d]", name, i)
		if isConst {
			l.addInputScalar(slot)
		} else {
			l.addOutputScalar(slot)
		}
	}
}
