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

// UnknownParameterError means a CallArg named a parameter the compiled
// function does not declare.
type UnknownParameterError struct {
	Name string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("unknown parameter %q", e.Name)
}

// callBinding is the mutable state a CallArg is applied against: the
// register file about to be executed, plus the name lookup tables needed
// to place scalars and write results back out.
type callBinding struct {
	fn        *CompiledFunction
	registers []float64
	writeBack []func()
	err       error
}

func (b *callBinding) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *callBinding) inputRegister(name string) (int, bool) {
	for i, n := range b.fn.inputNames {
		if n == name {
			return b.fn.inputRegisters[i], true
		}
	}
	return -1, false
}

func (b *callBinding) outputRegister(name string) (int, bool) {
	for i, n := range b.fn.outputNames {
		if n == name {
			return b.fn.outputRegisters[i], true
		}
	}
	return -1, false
}

// CallArg is one bound argument of a call to a CompiledFunction: a scalar or
// array, input or output. Values implementing CallArg are produced by the
// In/Out/InArray/OutArray constructors below rather than built by hand,
// mirroring the teacher's habit of exposing constructors for its argument
// wrapper types (see scm/scmer.go's NewLazy* family) instead of exported
// struct literals.
//
// A physical-quantity or 3-vector argument adapter -- binding a typed unit
// wrapper's scalar components to named parameters instead of raw float64s
// -- is a natural extension of this interface, but is out of scope here:
// nothing in this package interprets units or dimensionality.
type CallArg interface {
	bind(b *callBinding)
}

type scalarInputArg struct {
	name  string
	value float64
}

func (a scalarInputArg) bind(b *callBinding) {
	reg, ok := b.inputRegister(a.name)
	if !ok {
		b.fail(&UnknownParameterError{Name: a.name})
		return
	}
	if reg < 0 {
		// Slot is legally unused: the body never reads it, so there is
		// nowhere to write the argument. Skip per spec §4.7 step 1.
		return
	}
	b.registers[reg] = a.value
}

// In binds a scalar input parameter to value.
func In(name string, value float64) CallArg { return scalarInputArg{name: name, value: value} }

type scalarOutputArg struct {
	name string
	dest *float64
}

func (a scalarOutputArg) bind(b *callBinding) {
	reg, ok := b.outputRegister(a.name)
	if !ok {
		b.fail(&UnknownParameterError{Name: a.name})
		return
	}
	dest := a.dest
	b.writeBack = append(b.writeBack, func() { *dest = b.registers[reg] })
}

// Out binds a scalar output parameter, writing the result into *dest once
// the call completes.
func Out(name string, dest *float64) CallArg { return scalarOutputArg{name: name, dest: dest} }

type arrayInputArg struct {
	name   string
	values []float64
}

func (a arrayInputArg) bind(b *callBinding) {
	for i, v := range a.values {
		reg, ok := b.inputRegister(fmt.Sprintf("%s[%d]", a.name, i))
		if !ok {
			b.fail(&UnknownParameterError{Name: fmt.Sprintf("%s[%d]", a.name, i)})
			return
		}
		if reg < 0 {
			continue
		}
		b.registers[reg] = v
	}
}

// InArray binds every element of a fixed-length array input parameter.
func InArray(name string, values []float64) CallArg { return arrayInputArg{name: name, values: values} }

type arrayOutputArg struct {
	name string
	dest []float64
}

func (a arrayOutputArg) bind(b *callBinding) {
	for i := range a.dest {
		reg, ok := b.outputRegister(fmt.Sprintf("%s[%d]", a.name, i))
		if !ok {
			b.fail(&UnknownParameterError{Name: fmt.Sprintf("%s[%d]", a.name, i)})
			return
		}
		i, reg := i, reg
		b.writeBack = append(b.writeBack, func() { a.dest[i] = b.registers[reg] })
	}
}

// OutArray binds every element of a fixed-length array output parameter,
// writing results into dest once the call completes. dest's length
// determines how many elements are bound.
func OutArray(name string, dest []float64) CallArg { return arrayOutputArg{name: name, dest: dest} }

// call runs fn once against a fresh register file, applying each CallArg in
// order to marshal arguments in and results back out. This is the variadic
// entry point; Call below is a fluent builder over the same mechanism for
// callers assembling arguments incrementally.
func call(fn *CompiledFunction, args ...CallArg) error {
	b := &callBinding{fn: fn, registers: make([]float64, fn.registerCount)}
	for _, a := range args {
		a.bind(b)
	}
	if b.err != nil {
		return b.err
	}
	fn.View().execute(b.registers)
	for _, wb := range b.writeBack {
		wb()
	}
	return nil
}

// Call is a fluent builder over call, for assembling a variadic argument
// list across several statements instead of one literal.
type Call struct {
	fn   *CompiledFunction
	args []CallArg
}

// NewCall starts a fluent call against fn.
func NewCall(fn *CompiledFunction) *Call { return &Call{fn: fn} }

func (c *Call) Input(name string, value float64) *Call {
	c.args = append(c.args, In(name, value))
	return c
}

func (c *Call) Output(name string, dest *float64) *Call {
	c.args = append(c.args, Out(name, dest))
	return c
}

func (c *Call) InputArray(name string, values []float64) *Call {
	c.args = append(c.args, InArray(name, values))
	return c
}

func (c *Call) OutputArray(name string, dest []float64) *Call {
	c.args = append(c.args, OutArray(name, dest))
	return c
}

// Run executes the accumulated argument list against fn.
func (c *Call) Run() error { return call(c.fn, c.args...) }
