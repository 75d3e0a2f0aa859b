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
	"time"

	"github.com/cloudwego/qir/internal/ir"
	"github.com/cloudwego/qir/internal/opts"
	"github.com/sirupsen/logrus"
)

type Pass interface {
	Apply(*ir.Program)
}

type PassDescriptor struct {
	Pass Pass
	Name string
}

// Passes lists the passes Compile runs with the given options, in order.
func Passes(o opts.Options) []PassDescriptor {
	var ret []PassDescriptor

	/* optional clean-ups for loosely produced programs */
	if o.RemapBlocks {
		ret = append(ret, PassDescriptor{Name: "Block Remapping", Pass: new(RemapBlocks)})
	}
	if o.PruneDead {
		ret = append(ret, PassDescriptor{Name: "Dead Block Elimination", Pass: new(DeadBlocks)})
	}
	if o.TypeCheck {
		ret = append(ret, PassDescriptor{Name: "Type Checking", Pass: new(TypeCheck)})
	}

	/* the SSA construction itself */
	ret = append(ret,
		PassDescriptor{Name: "Intermediate Block Merging", Pass: new(BlockMerge)},
		PassDescriptor{Name: "SSA Construction", Pass: new(SSA)},
	)

	/* merging again is safe on SSA form */
	if o.SimplifyAfterSSA {
		ret = append(ret, PassDescriptor{Name: "Late Block Merging", Pass: new(BlockMerge)})
	}
	if o.Verify {
		ret = append(ret, PassDescriptor{Name: "SSA Verification", Pass: new(Verifier)})
	}
	return ret
}

// Compile runs every pass selected by o over p, in place.
func Compile(p *ir.Program, o opts.Options) {
	log := o.Log()

	/* run every pass */
	for _, d := range Passes(o) {
		st := time.Now()
		d.Pass.Apply(p)

		/* report the pass */
		log.WithFields(logrus.Fields{
			"pass":    d.Name,
			"blocks":  len(p.Blocks),
			"elapsed": time.Since(st),
		}).Debug("pass finished")

		/* dumping the program is expensive */
		if log.Logger.IsLevelEnabled(logrus.TraceLevel) {
			log.WithField("pass", d.Name).Trace("program after pass:\n" + ir.Render(p))
		}
	}
}
