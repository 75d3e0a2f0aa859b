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

package debug

import (
	"sync/atomic"

	"github.com/cloudwego/qir/internal/ir"
	"github.com/cloudwego/qir/internal/ssa"
	"github.com/davecgh/go-spew/spew"
)

// A Stats records statistics about the SSA passes, accumulated over every
// program transformed by this process.
type Stats struct {
	Blocks   BlockStats
	Values   ValueStats
	Verified int
}

// A BlockStats records how the passes changed the control flow graphs.
type BlockStats struct {
	Merged   int
	Remapped int
	Removed  int
}

// A ValueStats records how the SSA construction rewrote the instructions.
type ValueStats struct {
	ElidedStores int
	InsertedPhis int
}

// GetStats returns statistics of the SSA passes.
func GetStats() Stats {
	return Stats{
		Blocks: BlockStats{
			Merged:   int(atomic.LoadUint64(&ssa.MergedBlocks)),
			Remapped: int(atomic.LoadUint64(&ssa.RemappedBlocks)),
			Removed:  int(atomic.LoadUint64(&ssa.RemovedBlocks)),
		},
		Values: ValueStats{
			ElidedStores: int(atomic.LoadUint64(&ssa.ElidedStores)),
			InsertedPhis: int(atomic.LoadUint64(&ssa.InsertedPhis)),
		},
		Verified: int(atomic.LoadUint64(&ssa.VerifiedPrograms)),
	}
}

var dumper = spew.ConfigState{
	Indent:                  "    ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	DisableMethods:          true,
}

// Dump returns the full structure of p, every field of every instruction
// included. Unlike the canonical text form it shows the operand kinds and
// zero-valued metadata, which helps when two programs render the same but
// compare different.
func Dump(p *ir.Program) string {
	return dumper.Sdump(p)
}
