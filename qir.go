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

// Package qir normalizes the control flow graph of a hybrid classical and
// quantum program and rewrites it into Static Single Assignment form.
//
// The input must be acyclic, with every block numbered after all of its
// predecessors. Every violation of that contract, or of any other internal
// invariant, panics with an InvariantError, since it means that an earlier
// compiler pass produced a malformed program.
package qir

import (
	"github.com/cloudwego/qir/internal/ir"
	"github.com/cloudwego/qir/internal/opts"
	"github.com/cloudwego/qir/internal/ssa"
	"github.com/cloudwego/qir/internal/utils"
)

type (
	Program  = ir.Program
	Block    = ir.Block
	Callable = ir.Callable
	Instr    = ir.Instr
)

// Parse reads a program in its canonical text form.
func Parse(src string) (*Program, error) {
	return ir.Parse(src)
}

// Render returns the canonical text form of p, stable across releases.
func Render(p *Program) string {
	return ir.Render(p)
}

// Transform simplifies the control flow graph of p and rewrites it into SSA
// form, in place.
func Transform(p *Program, options ...Option) {
	o := opts.GetDefaultOptions()

	/* apply the options */
	for _, fn := range options {
		fn(&o)
	}

	/* run the pipeline */
	ssa.Compile(p, o)
}

// Verify checks that p is in valid SSA form, without modifying it.
func Verify(p *Program) {
	ssa.Verify(p)
}

// Check runs Transform, but returns invariant violations as an error
// instead of panicking. Any other panic is propagated.
func Check(p *Program, options ...Option) (err error) {
	defer func() { utils.Recover(&err, recover()) }()
	Transform(p, options...)
	return
}
