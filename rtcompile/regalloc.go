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

// allocateRegisters runs linear-scan register allocation over live ranges
// already sorted by WrittenAt ascending (spec §4.4), assigning each range a
// register index in place and returning the total register-file size.
//
// This specializes the same free-list-over-a-bitmap bookkeeping the
// teacher's JITContext uses for hardware registers during code emission
// (scm/jit_types.go's AllocReg/FreeReg), driven here by live-range extent
// instead of an emission cursor, and with no fixed register-count ceiling:
// the pool grows on demand (spec: "No spills").
func allocateRegisters(ranges []*LiveRange, instrs []NamedInstruction) int {
	active := make([]*LiveRange, 0, len(ranges))
	freeList := make([]int, 0, len(ranges))
	registerCount := 0

	popFree := func() int {
		if n := len(freeList); n > 0 {
			r := freeList[n-1]
			freeList = freeList[:n-1]
			return r
		}
		r := registerCount
		registerCount++
		return r
	}

	insertSorted := func(r *LiveRange) {
		i := 0
		for i < len(active) && active[i].LastReadAt <= r.LastReadAt {
			i++
		}
		active = append(active, nil)
		copy(active[i+1:], active[i:])
		active[i] = r
	}

	for _, r := range ranges {
		isConditionalWrite := r.WrittenAt >= 0 && r.WrittenAt < len(instrs) && instrs[r.WrittenAt].Opcode == OpConditionalCopy

		kept := active[:0]
		for _, a := range active {
			if a.LastReadAt <= r.WrittenAt && !(isConditionalWrite && a.LastReadAt == r.WrittenAt) {
				freeList = append(freeList, a.Register)
			} else {
				kept = append(kept, a)
			}
		}
		active = kept

		r.Register = popFree()
		insertSorted(r)
	}

	return registerCount
}
