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

import "sort"

// neverRead is the "never used" sentinel for LastReadAt (spec §3).
const neverRead = -2

// functionInput is the WrittenAt sentinel meaning "defined by the caller,
// before instruction 0" (spec §3).
const functionInput = -1

// LiveRange is the contiguous span of instruction indices over which a
// named value must occupy a register. Each range is allocated once and
// handled by pointer (computeLiveness keeps them in a slice of pointers,
// with a name-to-current-range map), so appending further ranges never
// moves one that is already referenced.
type LiveRange struct {
	Name       string
	WrittenAt  int
	LastReadAt int
	Register   int // filled in by the allocator; -1 until then
}

// computeLiveness walks the named instruction sequence once and produces one
// LiveRange per distinct write (or bare read-before-write, for inputs never
// explicitly re-read as a "input" pseudo-write), sorted by WrittenAt
// ascending with ties broken by first appearance (spec §4.3).
func computeLiveness(instrs []NamedInstruction, outputNames map[string]bool) []*LiveRange {
	n := len(instrs)
	var arena []*LiveRange
	current := make(map[string]*LiveRange)

	touch := func(name string, at int) {
		if r, ok := current[name]; ok {
			if at > r.LastReadAt {
				r.LastReadAt = at
			}
			return
		}
		r := &LiveRange{Name: name, WrittenAt: functionInput, LastReadAt: at, Register: -1}
		arena = append(arena, r)
		current[name] = r
	}

	for i, ins := range instrs {
		if ins.LeftName != "" {
			touch(ins.LeftName, i)
		}
		if ins.RightName != "" {
			touch(ins.RightName, i)
		}
		if ins.ResultName == "" {
			continue
		}
		if ins.Opcode == OpConditionalCopy {
			if r, ok := current[ins.ResultName]; ok {
				// extends the existing range; no new write range starts.
				if i > r.LastReadAt {
					r.LastReadAt = i
				}
				continue
			}
		}
		r := &LiveRange{Name: ins.ResultName, WrittenAt: i, LastReadAt: neverRead, Register: -1}
		arena = append(arena, r)
		current[ins.ResultName] = r
	}

	// An output parameter's register must stay reserved through the end of
	// execution. Applying that only to whichever range is still "current"
	// once the whole body has been walked -- rather than to every range
	// ever written to that name, as a literal reading of the per-write rule
	// would do -- keeps a superseded write (one output name assigned twice
	// in a row, with no conditional in between) from being stamped with the
	// same end-of-function liveness as the write that actually survives;
	// two ranges both claiming the tail of the instruction stream would
	// violate the non-overlap invariant.
	for name, r := range current {
		if outputNames[name] {
			r.LastReadAt = n
		}
	}

	sort.SliceStable(arena, func(a, b int) bool { return arena[a].WrittenAt < arena[b].WrittenAt })
	return arena
}
