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

import "testing"

// A keyword prefix must not swallow a longer identifier that merely starts
// with the same letters ("doubling" is not the keyword "double").
func TestParse_KeywordDoesNotShadowLongerIdentifier(t *testing.T) {
	l, err := parse(`void f(double doubling, double& r) { r = doubling + 1; }`, false)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	found := false
	for _, n := range l.InputNames {
		if n == "doubling" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected input parameter %q, got %v", "doubling", l.InputNames)
	}
}

func TestParse_FloatLiteralWithExponent(t *testing.T) {
	l, err := parse(`void f(double& r) { r = 1.5e2; }`, false)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(l.Instructions) == 0 || l.Instructions[0].Opcode != OpAssignConstant || l.Instructions[0].Constant != 150 {
		t.Fatalf("instructions = %+v, want assign_constant 150", l.Instructions)
	}
}

func TestParse_IntegerLiteralIsNotMistakenForFloat(t *testing.T) {
	l, err := parse(`void f(double& r) { r = 5; }`, false)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if l.Instructions[0].Constant != 5 {
		t.Fatalf("constant = %v, want 5", l.Instructions[0].Constant)
	}
}

func TestParse_DeclSpecPermutations(t *testing.T) {
	for _, src := range []string{
		`void f(const double x, double& r) { r = x; }`,
		`void f(double const x, double& r) { r = x; }`,
		`void f(double x, double& r) { r = x; }`,
	} {
		l, err := parse(src, false)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		if len(l.InputNames) != 1 || l.InputNames[0] != "x" {
			t.Fatalf("parse %q: InputNames = %v", src, l.InputNames)
		}
	}
}

func TestParse_ArrayParameterExpandsToPerElementSlots(t *testing.T) {
	l, err := parse(`void f(const double x[3], double out[2]) { out[0] = x[0]; out[1] = x[1]; }`, false)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	wantIn := []string{"x[0]", "x[1]", "x[2]"}
	if len(l.InputNames) != len(wantIn) {
		t.Fatalf("InputNames = %v, want %v", l.InputNames, wantIn)
	}
	for i, name := range wantIn {
		if l.InputNames[i] != name {
			t.Fatalf("InputNames[%d] = %q, want %q", i, l.InputNames[i], name)
		}
	}
	wantOut := []string{"out[0]", "out[1]"}
	for i, name := range wantOut {
		if l.OutputNames[i] != name {
			t.Fatalf("OutputNames[%d] = %q, want %q", i, l.OutputNames[i], name)
		}
	}
}
