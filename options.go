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

package qir

import (
	"github.com/cloudwego/qir/internal/opts"
	"github.com/sirupsen/logrus"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithVerify runs the SSA verifier at the end of the pipeline.
//
// This value can also be configured with the `QIR_VERIFY` environment
// variable. The default value of this option is "true".
func WithVerify(v bool) Option {
	return func(o *opts.Options) { o.Verify = v }
}

// WithSimplifyAfterSSA merges intermediate blocks once more after the SSA
// construction.
//
// This value can also be configured with the `QIR_SIMPLIFY_AFTER_SSA`
// environment variable. The default value of this option is "true".
func WithSimplifyAfterSSA(v bool) Option {
	return func(o *opts.Options) { o.SimplifyAfterSSA = v }
}

// WithBlockRemap renumbers the blocks in topological order before anything
// else, for producers that do not number blocks after their predecessors.
//
// This value can also be configured with the `QIR_REMAP_BLOCKS` environment
// variable. The default value of this option is "false".
func WithBlockRemap(v bool) Option {
	return func(o *opts.Options) { o.RemapBlocks = v }
}

// WithDeadBlockPruning removes the blocks no callable can reach.
//
// This value can also be configured with the `QIR_PRUNE_DEAD` environment
// variable. The default value of this option is "false".
func WithDeadBlockPruning(v bool) Option {
	return func(o *opts.Options) { o.PruneDead = v }
}

// WithTypeCheck checks operand types before the transformation.
//
// This value can also be configured with the `QIR_TYPECHECK` environment
// variable. The default value of this option is "false".
func WithTypeCheck(v bool) Option {
	return func(o *opts.Options) { o.TypeCheck = v }
}

// WithLogger sets the logger that receives per-pass reports. Pass reports are
// logged at debug level, and the program after every pass at trace level.
func WithLogger(log *logrus.Entry) Option {
	if log == nil {
		panic("qir: nil logger")
	} else {
		return func(o *opts.Options) { o.Logger = log }
	}
}
