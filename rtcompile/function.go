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
	"strings"

	"github.com/google/uuid"
)

// CompiledFunction is the immutable result of Compile: a register-indexed
// instruction stream plus the tables telling a caller which register holds
// which declared parameter. It is safe to share across goroutines and to
// call ExecutableView.Execute from many of them concurrently, provided each
// caller supplies its own register file.
type CompiledFunction struct {
	id              uuid.UUID
	instructions    []RegisterInstruction
	inputRegisters  []int
	outputRegisters []int
	inputNames      []string
	outputNames     []string
	registerCount   int
}

// ID identifies this compiled function for logging/tracing correlation,
// mirroring the correlation IDs the teacher's network layer attaches to
// long-running requests (scm/network.go).
func (f *CompiledFunction) ID() uuid.UUID { return f.id }

// RegisterCount is the size of the register file execute needs.
func (f *CompiledFunction) RegisterCount() int { return f.registerCount }

// View returns a non-owning handle over the instruction stream, cheap to
// pass around and safe to hold onto after the CompiledFunction that
// produced it is discarded, since it shares the same backing slice.
func (f *CompiledFunction) View() ExecutableView {
	return ExecutableView{fn: f}
}

// CopyForDevice returns a deep, independently-owned copy of the compiled
// program, suitable for handing to a caller that will mutate or relocate
// its own copy of the instruction stream (e.g. an execution backend that
// lives on a separate device and needs its own memory). This generalizes
// the teacher's JIT buffer relocation (scm/jit.go allocates and copies
// executable memory per compiled closure); here there is no machine code
// to place, only the bytecode slice, so the "device" step is a bulk copy
// tagged with a fresh correlation ID rather than an mmap/mprotect dance.
func (f *CompiledFunction) CopyForDevice() *CompiledFunction {
	cp := &CompiledFunction{
		id:              uuid.New(),
		instructions:    append([]RegisterInstruction(nil), f.instructions...),
		inputRegisters:  append([]int(nil), f.inputRegisters...),
		outputRegisters: append([]int(nil), f.outputRegisters...),
		inputNames:      append([]string(nil), f.inputNames...),
		outputNames:     append([]string(nil), f.outputNames...),
		registerCount:   f.registerCount,
	}
	return cp
}

// Disassemble renders the register-indexed instruction stream as
// human-readable text, one instruction per line, in the same terse
// "opcode operands" shape the teacher's JIT dumps use when
// GOAMD64_DEBUG-style tracing is enabled (scm/jit.go, scm/jit_amd64.go).
func (f *CompiledFunction) Disassemble() string {
	var b strings.Builder
	fmt.Fprintf(&b, "; function %s, %d register(s)\n", f.id, f.registerCount)
	for i, name := range f.inputNames {
		fmt.Fprintf(&b, "; in  %-12s r%d\n", name, f.inputRegisters[i])
	}
	for i, name := range f.outputNames {
		fmt.Fprintf(&b, "; out %-12s r%d\n", name, f.outputRegisters[i])
	}
	for i, ins := range f.instructions {
		switch {
		case ins.Opcode.isConstant():
			fmt.Fprintf(&b, "%4d  r%-3d = %s %v\n", i, ins.ResultRegister, ins.Opcode, ins.Constant)
		case ins.Opcode.isUnary():
			fmt.Fprintf(&b, "%4d  r%-3d = %s r%d\n", i, ins.ResultRegister, ins.Opcode, ins.LeftRegister)
		default:
			fmt.Fprintf(&b, "%4d  r%-3d = %s r%d, r%d\n", i, ins.ResultRegister, ins.Opcode, ins.LeftRegister, ins.RightRegister)
		}
	}
	return b.String()
}

// ExecutableView is a cheap, non-owning handle over a CompiledFunction's
// instruction stream. It exists so the calling shim (callshim.go) has a
// stable type to hold independent of how the function was produced or
// copied, mirroring the teacher's separation between a parsed Scmer
// closure and the environment it is later invoked against.
type ExecutableView struct {
	fn *CompiledFunction
}

func (v ExecutableView) RegisterCount() int     { return v.fn.registerCount }
func (v ExecutableView) InputRegisters() []int  { return v.fn.inputRegisters }
func (v ExecutableView) OutputRegisters() []int { return v.fn.outputRegisters }

// Execute runs the compiled instruction stream once against registers, per
// §4.7/§6. registers must have at least RegisterCount() slots; the caller
// has already placed argument values in the input registers and reads
// results back out of the output registers once Execute returns. This is
// the entry point §5's concurrency contract describes directly: many
// goroutines may call Execute on the same ExecutableView concurrently,
// each supplying its own register file. call/Call (callshim.go) build on
// this but always allocate a fresh register file per invocation; Execute
// is for a caller that wants to own and reuse that allocation itself.
func (v ExecutableView) Execute(registers []float64) { v.execute(registers) }
