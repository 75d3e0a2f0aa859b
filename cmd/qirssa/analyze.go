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
	"strings"

	"github.com/cloudwego/qir"
	"github.com/cloudwego/qir/debug"
	"github.com/cloudwego/qir/internal/ir"
	"github.com/cloudwego/qir/internal/ssa"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newVerifyCommand(cli *_Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "verify FILE [FILE]...",
		Short: "Check that programs are in valid SSA form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, cli, args)
		},
	}
}

func runVerify(cmd *cobra.Command, cli *_Cli, paths []string) error {
	failed := 0
	for _, path := range paths {
		p, err := cli.load(path)
		if err == nil {
			err = guard(func() { qir.Verify(p) })
		}

		/* report every file, keep going on failures */
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, err)
			failed++
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		}
	}

	/* fail if any of the files failed */
	if failed != 0 {
		return errors.Errorf("%d of %d programs failed verification", failed, len(paths))
	}
	return nil
}

func blockList(ids []ir.BlockId) string {
	buf := make([]string, len(ids))
	for i, v := range ids {
		buf[i] = v.String()
	}
	return strings.Join(buf, " ")
}

func newPredsCommand(cli *_Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "preds FILE",
		Short: "Print the predecessors of every block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cli.load(args[0])
			if err != nil {
				return err
			}
			preds := ssa.BuildPredecessors(p)
			for _, id := range p.BlockIds() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", id, blockList(preds.Of(id)))
			}
			return nil
		},
	}
}

func newDomCommand(cli *_Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dom FILE",
		Short: "Print the immediate dominator of every block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cli.load(args[0])
			if err != nil {
				return err
			}

			/* the dominator sweep needs an acyclic program */
			var doms ssa.DominatorMap
			if err = guard(func() {
				preds := ssa.BuildPredecessors(p)
				ssa.CheckAcyclic(preds)
				doms = ssa.BuildDominators(p, preds)
			}); err != nil {
				return errors.Wrap(err, args[0])
			}

			/* roots have no dominator */
			for _, id := range p.BlockIds() {
				if doms.IsRoot(id) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: root\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", id, doms.Idom(id))
				}
			}
			return nil
		},
	}
}

func newStatsCommand(cli *_Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE [FILE]...",
		Short: "Transform programs and print what the passes did",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				p, err := cli.load(path)
				if err != nil {
					return err
				}
				if err = qir.Check(p, qir.WithLogger(cli.log.WithField("file", path))); err != nil {
					return errors.Wrap(err, path)
				}
			}

			/* counters are process wide */
			st := debug.GetStats()
			fmt.Fprintf(cmd.OutOrStdout(), "merged blocks:   %d\n", st.Blocks.Merged)
			fmt.Fprintf(cmd.OutOrStdout(), "remapped blocks: %d\n", st.Blocks.Remapped)
			fmt.Fprintf(cmd.OutOrStdout(), "removed blocks:  %d\n", st.Blocks.Removed)
			fmt.Fprintf(cmd.OutOrStdout(), "elided stores:   %d\n", st.Values.ElidedStores)
			fmt.Fprintf(cmd.OutOrStdout(), "inserted phis:   %d\n", st.Values.InsertedPhis)
			fmt.Fprintf(cmd.OutOrStdout(), "verified:        %d\n", st.Verified)
			return nil
		},
	}
}
