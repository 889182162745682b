// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/reposcout/pkg/version"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "reposcout",
		Short: "Search GitHub repositories and keep a selection",
		Long: `reposcout searches GitHub repositories by keyword, sorted by stars,
and keeps a selection of repositories that survives restarts.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML or TOML config file")
	flags.StringVar(&opts.token, "token", "", "GitHub personal access token (overrides the configured token variable)")
	flags.StringVar(&opts.backend, "backend", "", "Search backend: rest or graphql")
	flags.StringVar(&opts.stateDir, "state-dir", "", "Directory holding the persisted selection")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newSearchCommand(opts),
		newSelectCommand(opts),
		newInteractiveCommand(opts),
	)

	rootCmd.SetArgs(args[1:])
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(stderr, err)
		return mapErrorToExitCode(err)
	}
	return 0
}

// printError writes err once, without doubling the "Error:" prefix that
// transport errors already carry.
func printError(w io.Writer, err error) {
	msg := err.Error()
	if !strings.HasPrefix(msg, "Error:") {
		msg = "Error: " + msg
	}
	fmt.Fprintln(w, msg)
}
