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

import "github.com/google/uuid"

// Compile parses source, lowers it to three-address IR, computes liveness,
// runs linear-scan register allocation and emits the register-indexed
// bytecode, returning a CompiledFunction ready to execute. Set verbose to log
// every lowering step and the final disassembly via the standard log
// package, in the same spirit as the teacher's -v flag driving scm.Trace.
func Compile(source string, verbose bool) (fn *CompiledFunction, err error) {
	l, err := parse(source, verbose)
	if err != nil {
		return nil, err
	}

	outputSet := make(map[string]bool, len(l.OutputNames))
	for _, name := range l.OutputNames {
		outputSet[name] = true
	}

	ranges := computeLiveness(l.Instructions, outputSet)
	registerCount := allocateRegisters(ranges, l.Instructions)

	instrs, inputRegs, outputRegs, err := emit(l.Instructions, ranges, l.InputNames, l.OutputNames)
	if err != nil {
		return nil, err
	}

	fn = &CompiledFunction{
		id:              uuid.New(),
		instructions:    instrs,
		inputRegisters:  inputRegs,
		outputRegisters: outputRegs,
		inputNames:      l.InputNames,
		outputNames:     l.OutputNames,
		registerCount:   registerCount,
	}

	if verbose {
		l.trace("compiled function %s:\n%s", fn.id, fn.Disassemble())
	}

	return fn, nil
}
