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

package session

import (
	"unicode/utf8"

	"github.com/sirseerhq/reposcout/internal/github"
	"github.com/sirseerhq/reposcout/internal/store"
)

// Mode is what the main area of the screen shows. Modes are checked in
// declaration order; the first that applies wins.
type Mode int

const (
	// ModeError shows the error. Only when the query is long enough.
	ModeError Mode = iota
	// ModeLoading shows a loading indicator.
	ModeLoading
	// ModeIdle shows the title; the query is empty or too short.
	ModeIdle
	// ModeList shows the results, or the empty-state when there are none.
	ModeList
)

func (m Mode) String() string {
	switch m {
	case ModeError:
		return "error"
	case ModeLoading:
		return "loading"
	case ModeIdle:
		return "idle"
	case ModeList:
		return "list"
	default:
		return "unknown"
	}
}

// View is everything a presentation layer needs to draw the search screen.
type View struct {
	Query string
	State store.State
	Mode  Mode

	// ShowValidationHint is set while 0 < len(Query) < the minimum.
	ShowValidationHint bool

	// ShowEmpty is set when a finished search for a valid query found nothing.
	// Before the first search the results are absent, not empty, so it stays
	// false during the quiet period after typing a valid query.
	ShowEmpty bool

	// HasSelection enables the selection view affordance.
	HasSelection bool

	// Selected holds the current results that are selected.
	Selected []github.Repository
}

// ShowError reports whether the error should be displayed.
func (v View) ShowError() bool {
	return v.Mode == ModeError
}

// View computes the current presentation state.
func (s *Session) View() View {
	text := s.Query()
	st := s.store.State()
	valid := s.passesGate(text)
	n := utf8.RuneCountInString(text)

	v := View{
		Query:              text,
		State:              st,
		ShowValidationHint: n > 0 && n < s.cfg.MinQueryLength,
		HasSelection:       len(st.Selection) > 0,
		Selected:           selected(st),
	}

	switch {
	case st.Error != "" && valid:
		v.Mode = ModeError
	case st.Loading:
		v.Mode = ModeLoading
	case !valid:
		v.Mode = ModeIdle
	default:
		v.Mode = ModeList
		v.ShowEmpty = st.Results != nil && len(st.Results) == 0
	}

	return v
}

// selected filters the results down to the selected ones, keeping results order.
func selected(st store.State) []github.Repository {
	out := make([]github.Repository, 0, len(st.Selection))
	for _, r := range st.Results {
		if st.Selection.Contains(r.ID) {
			out = append(out, r)
		}
	}
	return out
}
