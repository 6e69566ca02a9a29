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

// emit lowers named instructions plus their allocated live ranges into the
// register-indexed form, and resolves the input/output register tables
// (spec §4.5). It is the only place a LiveRange's Register field is read
// back out into the instruction stream.
func emit(instrs []NamedInstruction, ranges []*LiveRange, inputNames, outputNames []string) ([]RegisterInstruction, []int, []int, error) {
	n := len(instrs)
	out := make([]RegisterInstruction, n)
	for i, ins := range instrs {
		out[i] = RegisterInstruction{
			Opcode:         ins.Opcode,
			ResultRegister: -1,
			LeftRegister:   -1,
			RightRegister:  -1,
			Constant:       ins.Constant,
		}
	}

	for _, r := range ranges {
		start := r.WrittenAt
		if start < 0 {
			start = 0
		}
		// A range always owns at least the instruction that defines it, even
		// one whose value is never subsequently read (LastReadAt ==
		// neverRead): the result register still has to be recorded on that
		// instruction, or it is left at its -1 placeholder and the
		// interpreter would fault on it. Folding LastReadAt through
		// WrittenAt here (rather than substituting the two sentinels
		// separately) is what keeps the interval from collapsing to empty
		// for dead stores.
		end := r.LastReadAt
		if end < r.WrittenAt {
			end = r.WrittenAt
		}
		end++
		if end > n {
			end = n
		}

		for pos := start; pos < end; pos++ {
			ins := &instrs[pos]
			reg := &out[pos]
			if ins.ResultName == r.Name {
				reg.ResultRegister = r.Register
			}
			if ins.LeftName == r.Name {
				reg.LeftRegister = r.Register
			}
			if ins.RightName == r.Name {
				reg.RightRegister = r.Register
			}
		}
	}

	byNameWrittenAsInput := make(map[string]int, len(ranges))
	byNameLiveAtEnd := make(map[string]int, len(ranges))
	for _, r := range ranges {
		if r.WrittenAt == functionInput {
			byNameWrittenAsInput[r.Name] = r.Register
		}
		if r.LastReadAt == n {
			byNameLiveAtEnd[r.Name] = r.Register
		}
	}

	inputRegisters := make([]int, len(inputNames))
	for i, name := range inputNames {
		// -1 means the slot is legally unused: no live range ever claims it
		// because the body never reads it. The calling shim must skip such
		// a slot rather than invent somewhere to write the discarded
		// argument (spec §3, §4.5, §4.7).
		if reg, ok := byNameWrittenAsInput[name]; ok {
			inputRegisters[i] = reg
		} else {
			inputRegisters[i] = -1
		}
	}

	outputRegisters := make([]int, len(outputNames))
	for i, name := range outputNames {
		reg, ok := byNameLiveAtEnd[name]
		if !ok {
			return nil, nil, nil, &MissingOutputError{Name: name}
		}
		outputRegisters[i] = reg
	}

	return out, inputRegisters, outputRegisters, nil
}
