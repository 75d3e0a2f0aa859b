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

package main

import (
	"fmt"
	"os"

	"github.com/cloudwego/qir"
	"github.com/cloudwego/qir/internal/opts"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type transformOptions struct {
	output    string
	verify    bool
	simplify  bool
	remap     bool
	prune     bool
	typecheck bool
}

func newTransformCommand(cli *_Cli) *cobra.Command {
	var o transformOptions
	cmd := &cobra.Command{
		Use:   "transform FILE",
		Short: "Simplify the control flow graph and rewrite the program into SSA form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, cli, &o, args[0])
		},
	}

	/* output and pipeline options */
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Write the result to a file instead of stdout")
	addPipelineFlags(cmd.Flags(), &o)
	return cmd
}

// addPipelineFlags binds the pass selection flags. Defaults follow the
// environment, like the library itself.
func addPipelineFlags(flags *pflag.FlagSet, o *transformOptions) {
	def := opts.GetDefaultOptions()
	flags.BoolVar(&o.verify, "verify", def.Verify, "Verify the SSA form at the end")
	flags.BoolVar(&o.simplify, "simplify-after-ssa", def.SimplifyAfterSSA, "Merge intermediate blocks again after the SSA construction")
	flags.BoolVar(&o.remap, "remap-blocks", def.RemapBlocks, "Renumber blocks in topological order first")
	flags.BoolVar(&o.prune, "prune-dead", def.PruneDead, "Remove unreachable blocks first")
	flags.BoolVar(&o.typecheck, "typecheck", def.TypeCheck, "Check operand types first")
}

func runTransform(cmd *cobra.Command, cli *_Cli, o *transformOptions, path string) error {
	p, err := cli.load(path)
	if err != nil {
		return err
	}

	/* run the pipeline */
	err = qir.Check(p,
		qir.WithVerify(o.verify),
		qir.WithSimplifyAfterSSA(o.simplify),
		qir.WithBlockRemap(o.remap),
		qir.WithDeadBlockPruning(o.prune),
		qir.WithTypeCheck(o.typecheck),
		qir.WithLogger(cli.log.WithField("file", path)),
	)

	/* the pipeline rejected the program */
	if err != nil {
		return errors.Wrap(err, path)
	}

	/* write to stdout by default */
	if o.output == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), qir.Render(p))
		return err
	}

	/* or to the requested file */
	if err = os.WriteFile(o.output, []byte(qir.Render(p)), 0644); err != nil {
		return errors.Wrap(err, "cannot write program")
	}
	return nil
}
