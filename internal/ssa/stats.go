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
)

var (
	MergedBlocks     uint64
	ElidedStores     uint64
	InsertedPhis     uint64
	RemappedBlocks   uint64
	RemovedBlocks    uint64
	VerifiedPrograms uint64
)

func count(p *uint64, n int) {
	if n != 0 {
		atomic.AddUint64(p, uint64(n))
	}
}
