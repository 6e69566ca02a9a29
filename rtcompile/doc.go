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

// Package rtcompile compiles a single-function, statically-typed numeric
// formula language into a compact register bytecode and interprets that
// bytecode over a caller-supplied register file.
//
// The pipeline is: source text -> tokens -> parse reductions -> named
// (SSA-like) three-address instructions -> live ranges -> linear-scan
// register assignment -> register bytecode + input/output register tables
// -> CompiledFunction. Compilation is synchronous and side-effect free;
// execution of a CompiledFunction is safe to call concurrently from many
// goroutines as long as each caller supplies its own register file.
package rtcompile
