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
	"errors"
	"fmt"
	"io"
	"strings"

	scouterrors "github.com/sirseerhq/reposcout/internal/errors"
	"github.com/sirseerhq/reposcout/internal/github"
	"github.com/sirseerhq/reposcout/internal/logging"
	"github.com/sirseerhq/reposcout/internal/metadata"
	"github.com/sirseerhq/reposcout/internal/output"
	"github.com/spf13/cobra"
)

// searchOptions are the flags of the search command.
type searchOptions struct {
	page         int
	perPage      int
	withMetadata bool
	outputFile   string
}

func newSearchCommand(global *globalOptions) *cobra.Command {
	opts := searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search repositories by keyword, most starred first",
		Long: `Search GitHub repositories and print one NDJSON line per result.

Arguments are joined with spaces into one query and sent as typed; GitHub
search qualifiers such as "language:go" work. Results already in the
selection carry "selected": true. The total star count of the page is
printed to stderr.

Authentication is optional for the REST backend:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN (or the variable named by github.token_env)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd.Context(), global, opts, query, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().IntVar(&opts.page, "page", 1, "Result page, starting at 1 (the graphql backend serves page 1 only)")
	cmd.Flags().IntVar(&opts.perPage, "per-page", 0, "Results per page, up to 100 (default: search.per_page)")
	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Write results to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.withMetadata, "metadata", false, "Print search metadata to stderr and save it in the state directory")

	return cmd
}

// runSearch executes one store fetch and writes the committed state.
func runSearch(ctx context.Context, global *globalOptions, opts searchOptions, query string, stdout, stderr io.Writer) error {
	if opts.page < 1 {
		return scouterrors.NewValidationError("page must be at least 1, got %d", opts.page)
	}
	if opts.perPage < 0 || opts.perPage > github.MaxPerPage {
		return scouterrors.NewValidationError("per-page must be between 1 and %d, got %d", github.MaxPerPage, opts.perPage)
	}

	cfg, err := loadConfig(global, stderr)
	if err != nil {
		return err
	}
	perPage := opts.perPage
	if perPage == 0 {
		perPage = cfg.Search.PerPage
	}

	client, err := newSearcher(cfg, cfg.Token(global.token))
	if err != nil {
		return err
	}
	searcher := &recordingSearcher{Searcher: client}

	var md *metadata.SearchMetadata
	st, err := openStore(ctx, cfg, searcher, func(m *metadata.SearchMetadata) {
		md = m
	})
	if err != nil {
		return err
	}
	logger := logging.NewLogger("cli")
	defer closeStore(st, logger)

	st.Fetch(ctx, query, opts.page, perPage)
	result := st.State()

	if opts.withMetadata && md != nil {
		if err := metadata.WriteMetadataToWriter(md, stderr); err != nil {
			return fmt.Errorf("failed to write metadata: %w", err)
		}
		path, err := metadata.SaveMetadata(md, cfg.State.Dir)
		if err != nil {
			return err
		}
		logger.WithField("path", path).Info("saved search metadata")
	}

	if result.Error != "" {
		if err := searcher.Err(); err != nil {
			return err
		}
		return errors.New(result.Error)
	}

	writer := output.NewWriter(stdout)
	if opts.outputFile != "" {
		writer, err = output.NewFileWriter(opts.outputFile)
		if err != nil {
			return err
		}
	}

	if err := writer.WriteRepositories(result.Results, result.Selection.Contains); err != nil {
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	fmt.Fprintln(stderr, output.TotalStarsLine(result.TotalStars))

	return nil
}
