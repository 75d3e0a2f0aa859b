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

package ir

import (
	"math"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

func buildSample() *Program {
	boolTy := Boolean
	b := NewBuilder()
	mz := b.Declare("__quantum__qis__mz__body", Measurement, nil, Qubit, Result)
	rd := b.Declare("__quantum__rt__read_result", Readout, &boolTy, Result)
	_, b0 := b.Define("main", nil)
	b1 := b.NewBlock()
	b2 := b.NewBlock()
	b3 := b.NewBlock()

	b.SetBlock(b0)
	b.Call(mz, Lit(QubitLit(0)), Lit(ResultLit(0)))
	c := b.CallValue(rd, Boolean, Lit(ResultLit(0)))
	x := b.Var(Integer)
	b.Store(Lit(IntLit(0)), x)
	b.Branch(c, b1, b2)

	b.SetBlock(b1)
	b.Store(Lit(IntLit(42)), x)
	b.Jump(b3)

	b.SetBlock(b2)
	y := b.Binary(OpAdd, Var(x), Lit(IntLit(-7)))
	b.Store(Var(y), x)
	b.Jump(b3)

	b.SetBlock(b3)
	d := b.Fcmp(FcmpOlt, Lit(DoubleLit(1)), Lit(DoubleLit(2.5)))
	b.Unary(OpLogicalNot, Var(d))
	b.Binary(OpShl, Var(x), Lit(IntLit(2)))
	b.Return()

	p := b.Build()
	p.NumQubits = 1
	p.NumResults = 1
	p.Tags = []string{"0_r"}
	p.Block(b3).Ins[0].Metadata().Dbg = 7
	return p
}

func TestRender_Program(t *testing.T) {
	golden.Assert(t, Render(buildSample()), "program.golden")
}

func TestRender_RoundTrip(t *testing.T) {
	src, err := os.ReadFile("testdata/program.golden")
	require.NoError(t, err)
	p, err := Parse(string(src))
	require.NoError(t, err)
	if diff := cmp.Diff(string(src), Render(p)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Literals(t *testing.T) {
	tests := []struct {
		lit  Literal
		want string
	}{
		{BoolLit(true), "true"},
		{BoolLit(false), "false"},
		{IntLit(-12), "-12"},
		{DoubleLit(1), "1.0"},
		{DoubleLit(0.25), "0.25"},
		{DoubleLit(2.5e10), "2.5e+10"},
		{DoubleLit(math.Inf(1)), "+Inf"},
		{QubitLit(3), "q3"},
		{ResultLit(9), "r9"},
		{NullLit(), "null"},
	}
	var ps _Parser
	for _, tc := range tests {
		require.Equal(t, tc.want, tc.lit.String())
		require.Equal(t, tc.lit, ps.literal(tc.want), tc.want)
	}
}

func TestRender_Instructions(t *testing.T) {
	tests := []string{
		"%0:i64 = sdiv %1:i64, 3",
		"%0:i64 = srem 7, %1:i64",
		"%0:i64 = ashr %1:i64, 1",
		"%0:f64 = fdiv %1:f64, 2.0",
		"%0:i64 = xor %1:i64, %2:i64",
		"%0:bool = lor %1:bool, false",
		"%0:bool = icmp sge %1:i64, 0",
		"%0:bool = fcmp une %1:f64, NaN",
		"%0:i64 = not %1:i64",
		"%0:i64 = phi [1, b1], [%3:i64, b2]",
		"%4:result = call c3(q0, null) !dbg 12",
		"call c0()",
		"br %0:bool, b4, b5",
		"jump b9",
		"ret !dbg 1",
	}
	for _, src := range tests {
		ins, err := ParseInstr(src)
		require.NoError(t, err, src)
		require.Equal(t, src, ins.String())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"", "missing program header"},
		{"program entry=c0 qubits=0 results=0\n    ret", "instruction outside of a block"},
		{"program entry=c0 qubits=0 results=0\nb0:\n    frob %0:i64", `unknown instruction "frob"`},
		{"program entry=c0 qubits=0 results=0\nb0:\nb0:", "block b0 redefined"},
		{"program entry=c0 qubits=0 results=0\nb0:\n    %0:i65 = add 1, 2", `invalid type "i65"`},
		{"program entry=c0 qubits=0 results=0\nb0:\n    store 1 -> %0:void", "void is only valid"},
		{"program entry=c0 qubits=0 results=0\nb0:\n    jump b1 b2", `unexpected token "b2"`},
		{"program entry=c0 qubits=0 results=0\ncallable c0 f() -> void kind=bogus", "invalid callable kind"},
	}
	for _, tc := range tests {
		_, err := Parse(tc.src)
		require.Error(t, err, tc.src)
		require.Contains(t, err.Error(), tc.want)
	}
}

func TestProgram_Clone(t *testing.T) {
	p := buildSample()
	c := p.Clone()
	require.Equal(t, Render(p), Render(c))

	/* mutating the clone leaves the original alone */
	c.Block(0).Ins[1].(*Call).Args[0] = Lit(ResultLit(5))
	*c.Callables[2].Body = 3
	require.NotEqual(t, Render(p), Render(c))
	require.Equal(t, BlockId(0), *p.Callables[2].Body)
}

func TestProgram_NextVariableId(t *testing.T) {
	require.Equal(t, VariableId(6), buildSample().NextVariableId())
	require.Equal(t, VariableId(0), NewProgram().NextVariableId())
}
