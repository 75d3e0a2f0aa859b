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
	"sync/atomic"
	"testing"

	"github.com/cloudwego/qir/internal/ir"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

const scenarioB = `
b0:
    %1:bool = icmp eq 1, 1
    br %1:bool, b1, b2
b1:
    store 42 -> %0:i64
    jump b3
b2:
    store 7 -> %0:i64
    jump b3
b3:
    %2:i64 = add %0:i64, 1
    ret
`

func TestSSA_ScenarioA(t *testing.T) {
	p := parse(t, `
b0:
    store true -> %0:bool
    jump b1
b1:
    store true -> %1:bool
    ret
`)
	ns := atomic.LoadUint64(&ElidedStores)
	BlockMerge{}.Apply(p)
	SSA{}.Apply(p)
	require.Len(t, p.Blocks, 1)
	require.Equal(t, "b1:\n    ret\n", ir.RenderBlock(1, p.Blocks[1]))
	require.GreaterOrEqual(t, atomic.LoadUint64(&ElidedStores)-ns, uint64(2))
	Verify(p)
}

func TestSSA_ScenarioB(t *testing.T) {
	p := parse(t, scenarioB)
	np := atomic.LoadUint64(&InsertedPhis)
	BlockMerge{}.Apply(p)
	SSA{}.Apply(p)
	golden.Assert(t, ir.Render(p), "scenario_b.golden")
	require.GreaterOrEqual(t, atomic.LoadUint64(&InsertedPhis)-np, uint64(1))
	Verify(p)
}

func TestSSA_AgreeingPredecessors(t *testing.T) {
	p := parse(t, `
b0:
    store 5 -> %0:i64
    %1:bool = icmp eq 1, 1
    br %1:bool, b1, b2
b1:
    jump b3
b2:
    jump b3
b3:
    %2:i64 = add %0:i64, 1
    ret
`)
	SSA{}.Apply(p)
	requireProgram(t, `
b0:
    %1:bool = icmp eq 1, 1
    br %1:bool, b1, b2
b1:
    jump b3
b2:
    jump b3
b3:
    %2:i64 = add 5, 1
    ret
`, p)
}

func TestSSA_ChasesStoreChains(t *testing.T) {
	p := parse(t, `
b0:
    %0:i64 = add 1, 2
    store %0:i64 -> %1:i64
    store %1:i64 -> %2:i64
    store %2:i64 -> %2:i64
    %3:i64 = mul %2:i64, %1:i64
    %4:bool = icmp slt %3:i64, 10
    store %4:bool -> %5:bool
    br %5:bool, b1, b2
b1:
    ret
b2:
    ret
`)
	SSA{}.Apply(p)
	requireProgram(t, `
b0:
    %0:i64 = add 1, 2
    %3:i64 = mul %0:i64, %0:i64
    %4:bool = icmp slt %3:i64, 10
    br %4:bool, b1, b2
b1:
    ret
b2:
    ret
`, p)
	Verify(p)
}

func TestSSA_LiteralConditionKeepsSlot(t *testing.T) {
	p := parse(t, `
b0:
    store true -> %0:bool
    br %0:bool, b1, b2
b1:
    ret
b2:
    ret
`)
	SSA{}.Apply(p)
	require.Equal(t, "    br %0:bool, b1, b2", p.Blocks[0].String())
	requireInvariant(t, "SSA verification", "variable %0 used but not assigned (at b0.ins[0])", func() {
		Verify(p)
	})
}

func TestSSA_PhiTakesMetadata(t *testing.T) {
	p := parse(t, `
b0:
    %1:bool = icmp eq 1, 1
    br %1:bool, b1, b2
b1:
    store 42 -> %0:i64
    jump b3
b2:
    store 7 -> %0:i64
    jump b3
b3:
    %2:i64 = add %0:i64, 1 !dbg 5
    ret
`)
	SSA{}.Apply(p)
	require.Equal(t, "    %3:i64 = phi [42, b1], [7, b2] !dbg 5\n    %2:i64 = add %3:i64, 1 !dbg 5\n    ret", p.Blocks[3].String())
}

func TestSSA_ResolvesExistingPhis(t *testing.T) {
	p := parse(t, `
b0:
    %1:bool = icmp eq 1, 1
    br %1:bool, b1, b2
b1:
    store 3 -> %0:i64
    jump b3
b2:
    store 3 -> %0:i64
    jump b3
b3:
    %2:i64 = phi [%0:i64, b1], [8, b2]
    ret
`)
	SSA{}.Apply(p)
	require.Equal(t, "    %2:i64 = phi [3, b1], [8, b2]\n    ret", p.Blocks[3].String())
	Verify(p)
}

func TestSSA_MissingSlotIsNotCarried(t *testing.T) {
	p := parse(t, `
b0:
    %9:bool = icmp eq 1, 2
    br %9:bool, b1, b2
b1:
    store 1 -> %0:i64
    jump b3
b2:
    jump b3
b3:
    %1:i64 = add %0:i64, 1
    ret
`)
	SSA{}.Apply(p)
	require.Equal(t, "    %1:i64 = add %0:i64, 1\n    ret", p.Blocks[3].String())
	requireInvariant(t, "SSA verification", "variable %0 used but not assigned (at b3.ins[0])", func() {
		Verify(p)
	})
}

func TestSSA_FreshIdsPastExisting(t *testing.T) {
	p := parse(t, `
b0:
    %1:bool = icmp eq 1, 1
    br %1:bool, b1, b2
b1:
    store 1 -> %0:i64
    store true -> %20:bool
    jump b3
b2:
    store 2 -> %0:i64
    store false -> %20:bool
    jump b3
b3:
    %2:i64 = add %0:i64, 1
    br %20:bool, b4, b5
b4:
    ret
b5:
    ret
`)
	SSA{}.Apply(p)
	require.Equal(t,
		"    %21:i64 = phi [1, b1], [2, b2]\n"+
			"    %22:bool = phi [true, b1], [false, b2]\n"+
			"    %2:i64 = add %21:i64, 1\n"+
			"    br %22:bool, b4, b5",
		p.Blocks[3].String(),
	)
	Verify(p)
}

func TestSSA_RejectsBackEdge(t *testing.T) {
	p := parse(t, `
b0:
    store 1 -> %0:i64
    jump b1
b1:
    %1:bool = icmp eq %0:i64, 2
    br %1:bool, b0, b2
b2:
    ret
`)
	want := ir.Render(p)
	requireInvariant(t, "acyclicity check", "back edge", func() {
		SSA{}.Apply(p)
	})
	require.Equal(t, want, ir.Render(p))
}
