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
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/sirseerhq/reposcout/internal/logging"
	"github.com/sirseerhq/reposcout/internal/output"
	"github.com/sirseerhq/reposcout/internal/session"
	"github.com/sirseerhq/reposcout/internal/store"
	"github.com/spf13/cobra"
)

func newInteractiveCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Search as you type, one line of input per keystroke",
		Long: `Read search text from stdin, one line per state of the search box.

Each line replaces the search text. A search runs once typing pauses for
search.debounce and the text has at least search.min_query_length
characters; shorter text clears the results. The screen is re-rendered
whenever the results, loading state, error or selection change.

Lines starting with ":" are commands:
  :refresh       search the current text now
  :toggle <id>   select or deselect a repository
  :selected      list the selected repositories among the results
  :quit          exit without running a pending search

At end of input a pending search runs before exiting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), global, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runInteractive(ctx context.Context, global *globalOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(global, stderr)
	if err != nil {
		return err
	}

	client, err := newSearcher(cfg, cfg.Token(global.token))
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg, client, nil)
	if err != nil {
		return err
	}
	logger := logging.NewLogger("cli")
	defer closeStore(st, logger)

	sess := session.New(ctx, st, sessionConfig(cfg))
	r := &renderer{out: stdout, minQueryLength: cfg.Search.MinQueryLength, session: sess}

	unsubscribe := st.Subscribe(func(store.State) { r.render() })
	defer unsubscribe()

	r.render()

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ":") {
			quit, err := r.command(line)
			if err != nil {
				printError(stderr, err)
			}
			if quit {
				sess.Close()
				return nil
			}
			continue
		}
		sess.OnQueryChange(line)
	}
	if err := scanner.Err(); err != nil {
		sess.Close()
		return fmt.Errorf("failed to read input: %w", err)
	}

	sess.Flush()
	sess.Close()
	return nil
}

// renderer prints the session view whenever it changes. Store listeners run
// on whichever goroutine committed the change, so printing is serialized.
type renderer struct {
	out            io.Writer
	minQueryLength int
	session        *session.Session

	mu   sync.Mutex
	last string
}

func (r *renderer) render() {
	screen := renderView(r.session.View(), r.minQueryLength)

	r.mu.Lock()
	defer r.mu.Unlock()
	if screen == r.last {
		return
	}
	r.last = screen
	fmt.Fprint(r.out, screen)
}

// command runs one ":" command. It reports whether the loop should stop.
func (r *renderer) command(line string) (bool, error) {
	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) == 0 {
		return false, fmt.Errorf("empty command")
	}

	switch fields[0] {
	case "quit", "q":
		return true, nil

	case "refresh":
		if !r.session.Refresh() {
			return false, fmt.Errorf("type at least %d characters to search", r.minQueryLength)
		}
		return false, nil

	case "toggle":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: :toggle <id>")
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || id <= 0 {
			return false, fmt.Errorf("invalid repository id %q", fields[1])
		}
		if err := r.session.Toggle(id); err != nil {
			return false, fmt.Errorf("selection changed but was not saved: %w", err)
		}
		return false, nil

	case "selected":
		r.mu.Lock()
		defer r.mu.Unlock()
		fmt.Fprint(r.out, renderSelected(r.session.View()))
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}
}

// renderView draws one screen. Every screen ends with a separator line.
func renderView(v session.View, minQueryLength int) string {
	var b strings.Builder

	switch v.Mode {
	case session.ModeError:
		fmt.Fprintf(&b, "! %s\n", v.State.Error)
	case session.ModeLoading:
		b.WriteString("searching...\n")
	case session.ModeIdle:
		if v.ShowValidationHint {
			fmt.Fprintf(&b, "type at least %d characters\n", minQueryLength)
		} else {
			b.WriteString("search GitHub repositories\n")
		}
	case session.ModeList:
		if v.ShowEmpty {
			b.WriteString("no repositories found\n")
		}
		for _, repo := range v.State.Results {
			mark := "[ ]"
			if v.State.Selection.Contains(repo.ID) {
				mark = "[x]"
			}
			fmt.Fprintf(&b, "%s %d %s (%d)\n", mark, repo.ID, repo.FullName, repo.StargazersCount)
		}
		if v.State.Results != nil {
			b.WriteString(output.TotalStarsLine(v.State.TotalStars) + "\n")
		}
	}

	if v.HasSelection {
		fmt.Fprintf(&b, "selected: %d\n", len(v.State.Selection))
	}
	b.WriteString("--\n")

	return b.String()
}

// renderSelected lists the selected repositories among the current results.
func renderSelected(v session.View) string {
	if len(v.Selected) == 0 {
		return "no selected repositories in these results\n"
	}
	var b strings.Builder
	for _, repo := range v.Selected {
		fmt.Fprintf(&b, "%d %s %s\n", repo.ID, repo.FullName, repo.HTMLURL)
	}
	return b.String()
}
