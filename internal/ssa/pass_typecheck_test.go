/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ssa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const intrinsics = `
callable c1 __quantum__qis__mz__body(qubit, result) -> void kind=measurement
callable c2 __quantum__rt__read_result(result) -> bool kind=readout
callable c3 scale(i64) -> f64 kind=regular
`

func TestTypeCheck_Accepts(t *testing.T) {
	p := parse(t, intrinsics+`
b0:
    call c1(q0, r0)
    %0:bool = call c2(r0)
    store 3 -> %1:i64
    %2:f64 = call c3(%1:i64)
    call c3(4)
    %3:bool = fcmp olt %2:f64, 2.5
    %4:bool = land %0:bool, %3:bool
    %5:i64 = not %1:i64
    %6:bool = icmp sge %5:i64, 0
    br %4:bool, b1, b2
b1:
    jump b3
b2:
    jump b3
b3:
    %7:f64 = phi [1.0, b1], [%2:f64, b2]
    %8:f64 = fdiv %7:f64, 3.0
    ret
`)
	require.NotPanics(t, func() { TypeCheck{}.Apply(p) })
}

func TestTypeCheck_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		reason string
	}{
		{"integer op on double", "%1:i64 = add 1.5, 2", "b0.ins[0]: operand 1.5 should be i64"},
		{"float op result", "%1:i64 = fmul 1.0, 2.0", "result %1:i64 should be f64"},
		{"logical op on integer", "%1:bool = lor true, 0", "operand 0 should be bool"},
		{"lnot on integer", "%1:bool = lnot 1", "operand 1 should be bool"},
		{"icmp on double", "%1:bool = icmp eq 1.0, 2", "operand 1.0 should be i64"},
		{"icmp result", "%1:i64 = icmp eq 1, 2", "result %1:i64 should be bool"},
		{"fcmp on integer", "%1:bool = fcmp oeq 1, 2.0", "operand 1 should be f64"},
		{"store type", "store true -> %0:i64", "stored value true should be i64"},
		{"call arity", "call c3()", "callable c3 takes 1 arguments, got 0"},
		{"call argument", "call c1(r0, q0)", "argument r0 should be qubit"},
		{"void result", "%2:i64 = call c1(q0, r0)", "callable c1 returns nothing, but its result is assigned to %2:i64"},
		{"result type", "%2:i64 = call c3(1)", "result %2:i64 should be f64"},
		{"undeclared callee", "call c9()", "call to undeclared callable c9"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := parse(t, intrinsics+"b0:\n"+tc.src+"\nret\n")
			requireInvariant(t, "type check", tc.reason, func() {
				TypeCheck{}.Apply(p)
			})
		})
	}
}

func TestTypeCheck_RejectsBranchAndPhi(t *testing.T) {
	p := parse(t, `
b0:
    %0:i64 = add 1, 1
    br %0:i64, b1, b2
b1:
    ret
b2:
    ret
`)
	requireInvariant(t, "type check", "b0.ins[1]: branch condition %0:i64 should be bool", func() {
		TypeCheck{}.Apply(p)
	})

	/* phi arguments must match the result */
	p = parse(t, `
b0:
    %0:bool = icmp eq 1, 1
    br %0:bool, b1, b2
b1:
    jump b3
b2:
    jump b3
b3:
    %1:i64 = phi [1, b1], [true, b2]
    ret
`)
	requireInvariant(t, "type check", "phi argument true should be i64", func() {
		TypeCheck{}.Apply(p)
	})
}
