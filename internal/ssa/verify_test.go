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

	"github.com/cloudwego/qir/internal/ir"
	"github.com/stretchr/testify/require"
)

func TestVerify_Accepts(t *testing.T) {
	tests := []string{
		`
b0:
    ret
`,
		`
b0:
    %1:bool = icmp eq 1, 1
    br %1:bool, b1, b2
b1:
    %2:i64 = add 1, 2
    jump b3
b2:
    jump b3
b3:
    %3:i64 = phi [%2:i64, b1], [7, b2]
    %4:i64 = add %3:i64, 1
    %5:bool = icmp slt %4:i64, 0
    br %5:bool, b4, b4
b4:
    %6:i64 = mul %4:i64, %3:i64
    ret
`,
	}
	for _, src := range tests {
		p := parse(t, src)
		want := ir.Render(p)
		require.NotPanics(t, func() { Verify(p) }, src)
		require.Equal(t, want, ir.Render(p))
	}
}

func TestVerify_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		reason string
	}{{
		name: "dangling use",
		src: `
b0:
    %1:i64 = add %7:i64, 1
    ret
`,
		reason: "variable %7 used but not assigned (at b0.ins[0])",
	}, {
		name: "dangling branch condition",
		src: `
b0:
    br %3:bool, b1, b2
b1:
    ret
b2:
    ret
`,
		reason: "variable %3 used but not assigned (at b0.ins[0])",
	}, {
		name: "phi arity",
		src: `
b0:
    %0:bool = icmp eq 1, 1
    br %0:bool, b1, b2
b1:
    jump b3
b2:
    jump b3
b3:
    %1:i64 = phi [1, b1]
    ret
`,
		reason: "has 1 arguments, but the block has 2 predecessors",
	}, {
		name: "phi names a non-predecessor",
		src: `
b0:
    %0:bool = icmp eq 1, 1
    br %0:bool, b1, b2
b1:
    jump b3
b2:
    jump b3
b3:
    %1:i64 = phi [1, b1], [2, b0]
    ret
`,
		reason: "names b0, which is not a predecessor",
	}, {
		name: "phi names a predecessor twice",
		src: `
b0:
    %0:bool = icmp eq 1, 1
    br %0:bool, b1, b2
b1:
    jump b3
b2:
    jump b3
b3:
    %1:i64 = phi [1, b1], [2, b1]
    ret
`,
		reason: "names predecessor b1 more than once",
	}, {
		name: "stray phi",
		src: `
b0:
    %0:i64 = phi [1, b1]
    jump b1
b1:
    ret
`,
		reason: "block b0 has no predecessors but contains phi",
	}, {
		name: "self-referential phi",
		src: `
b0:
    %0:bool = icmp eq 1, 1
    br %0:bool, b1, b2
b1:
    jump b3
b2:
    jump b3
b3:
    %5:i64 = phi [%5:i64, b1], [1, b2]
    ret
`,
		reason: "references its own result",
	}, {
		name: "definition does not dominate",
		src: `
b0:
    %0:bool = icmp eq 1, 1
    br %0:bool, b1, b2
b1:
    %2:i64 = add 1, 1
    jump b3
b2:
    jump b3
b3:
    %3:i64 = add %2:i64, 1
    ret
`,
		reason: "definition of variable %2 at b1.ins[0] does not dominate its use at b3.ins[0]",
	}, {
		name: "use before definition",
		src: `
b0:
    %1:i64 = add %2:i64, 1
    %2:i64 = add 1, 1
    ret
`,
		reason: "definition of variable %2 at b0.ins[1] does not dominate its use at b0.ins[0]",
	}, {
		name: "phi argument from the wrong edge",
		src: `
b0:
    %0:bool = icmp eq 1, 1
    br %0:bool, b1, b2
b1:
    %2:i64 = add 1, 1
    jump b3
b2:
    jump b3
b3:
    %3:i64 = phi [1, b1], [%2:i64, b2]
    ret
`,
		reason: "definition of variable %2 at b1.ins[0] does not dominate its use at b2.end",
	}, {
		name: "double assignment",
		src: `
b0:
    %1:i64 = add 1, 1
    %1:i64 = add 2, 2
    ret
`,
		reason: "variable %1 is assigned more than once, at b0.ins[0] and b0.ins[1]",
	}, {
		name: "empty block",
		src: `
b0:
    jump b1
b1:
`,
		reason: "block b1 is empty",
	}, {
		name: "missing terminator",
		src: `
b0:
    %1:i64 = add 1, 1
`,
		reason: "block b0 does not end with a terminator",
	}, {
		name: "terminator in the middle",
		src: `
b0:
    ret
    %1:i64 = add 1, 1
    ret
`,
		reason: `terminator "ret" at b0.ins[0] is followed by other instructions`,
	}, {
		name: "dangling successor",
		src: `
b0:
    jump b9
`,
		reason: "block b0 branches to non-existent block b9",
	}, {
		name: "missing body",
		src: `
callable c1 other() -> void body=b4 kind=regular
b0:
    ret
`,
		reason: "body b4 of callable c1 does not exist",
	}}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := parse(t, tc.src)
			requireInvariant(t, "SSA verification", tc.reason, func() {
				Verify(p)
			})
		})
	}
}

func TestVerify_RejectsBackEdge(t *testing.T) {
	p := parse(t, `
b0:
    jump b1
b1:
    jump b0
`)
	requireInvariant(t, "acyclicity check", "back edge b1 -> b0", func() {
		Verifier{}.Apply(p)
	})
}
