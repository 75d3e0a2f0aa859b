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

// Command qirssa runs the SSA passes over programs stored on disk, and
// prints the analyses they are built on.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cloudwego/qir/internal/ir"
	"github.com/cloudwego/qir/internal/loader"
	"github.com/cloudwego/qir/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type _Cli struct {
	log     *logrus.Logger
	verbose int
}

func (self *_Cli) load(path string) (*ir.Program, error) {
	p, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	self.log.WithFields(logrus.Fields{
		"file":   path,
		"blocks": len(p.Blocks),
	}).Debug("program loaded")
	return p, nil
}

// guard runs fn, turning invariant violations into errors.
func guard(fn func()) (err error) {
	defer func() { utils.Recover(&err, recover()) }()
	fn()
	return
}

func newRootCommand(stdout io.Writer, stderr io.Writer) *cobra.Command {
	cli := &_Cli{log: logrus.New()}
	cli.log.SetOutput(stderr)

	/* root command */
	cmd := &cobra.Command{
		Use:           "qirssa",
		Short:         "Normalize control flow and build SSA form for QIR programs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case cli.verbose >= 2:
				cli.log.SetLevel(logrus.TraceLevel)
			case cli.verbose == 1:
				cli.log.SetLevel(logrus.DebugLevel)
			}
		},
	}

	/* global flags */
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.PersistentFlags().CountVarP(&cli.verbose, "verbose", "v", "Log every pass, repeat to dump the program after each one")

	/* add subcommands */
	cmd.AddCommand(
		newTransformCommand(cli),
		newVerifyCommand(cli),
		newPredsCommand(cli),
		newDomCommand(cli),
		newStatsCommand(cli),
	)
	return cmd
}

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "qirssa:", err)
		os.Exit(1)
	}
}
