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

// Package output writes search results and selections as NDJSON (Newline
// Delimited JSON). Each line is one complete JSON object, so results can be
// piped straight into jq or another line-oriented consumer.
//
// The primary type is Writer, which provides thread-safe writing of JSON records
// to an io.Writer or file without accumulating records in memory.
//
// Example usage:
//
//	w := output.NewWriter(os.Stdout)
//	defer w.Close()
//
//	st := repoStore.State()
//	if err := w.WriteRepositories(st.Results, st.Selection.Contains); err != nil {
//	    return err
//	}
//	fmt.Fprintln(os.Stderr, output.TotalStarsLine(st.TotalStars))
package output
