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
	"fmt"
	"strconv"

	scouterrors "github.com/sirseerhq/reposcout/internal/errors"
	"github.com/sirseerhq/reposcout/internal/logging"
	"github.com/sirseerhq/reposcout/internal/output"
	"github.com/sirseerhq/reposcout/internal/store"
	"github.com/spf13/cobra"
)

func newSelectCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Manage the persisted repository selection",
		Long: `Manage the selection of repository ids kept in the state directory.

Every change is written to disk before the command returns. The resulting
selection is printed as one NDJSON line per id, in the order ids were added.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "toggle <id>...",
			Short: "Add ids that are not selected, remove ids that are",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				return withSelectionStore(cmd, global, func(st *store.Store) error {
					for _, id := range ids {
						if err := st.Toggle(id); err != nil {
							return fmt.Errorf("failed to save selection: %w", err)
						}
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print the selected ids",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSelectionStore(cmd, global, func(*store.Store) error { return nil })
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every id from the selection",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSelectionStore(cmd, global, func(st *store.Store) error {
					if err := st.ClearSelection(); err != nil {
						return fmt.Errorf("failed to save selection: %w", err)
					}
					return nil
				})
			},
		},
	)

	return cmd
}

// withSelectionStore opens the store without a search backend, applies fn
// and prints the resulting selection.
func withSelectionStore(cmd *cobra.Command, global *globalOptions, fn func(*store.Store) error) error {
	cfg, err := loadConfig(global, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	st, err := openStore(cmd.Context(), cfg, offlineSearcher{}, nil)
	if err != nil {
		return err
	}
	defer closeStore(st, logging.NewLogger("cli"))

	if err := fn(st); err != nil {
		return err
	}

	return output.NewWriter(cmd.OutOrStdout()).WriteSelection(st.State().Selection)
}

// parseIDs parses repository ids given on the command line.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, scouterrors.NewValidationError("invalid repository id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
