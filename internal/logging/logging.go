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

// Package logging hands out component loggers that share one logrus root.
// Configure may be called at any time; loggers created earlier pick up the
// new level, format and output.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Supported formats.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultLevel keeps the CLI quiet unless something needs attention.
const DefaultLevel = "warn"

var (
	root      = newRoot()
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// Options controls the shared root logger.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

func newRoot() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(parseLevel(os.Getenv("REPOSCOUT_LOG_LEVEL")))
	logger.SetFormatter(formatterFor(FormatAuto, os.Stderr))
	return logger
}

// NewLogger returns the logger for a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	entry := root.WithField("component", component)
	loggers[component] = entry
	return entry
}

// Configure applies opts to the root logger. Empty fields keep their defaults.
func Configure(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	root.SetOutput(out)
	root.SetLevel(parseLevel(opts.Level))
	root.SetFormatter(formatterFor(opts.Format, out))
}

func parseLevel(s string) logrus.Level {
	if s == "" {
		s = DefaultLevel
	}
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}

// formatterFor picks JSON for machines and text for people. In auto mode the
// choice depends on whether out is an interactive terminal.
func formatterFor(format string, out io.Writer) logrus.Formatter {
	switch strings.ToLower(format) {
	case FormatJSON:
		return &logrus.JSONFormatter{}
	case FormatText:
		return &logrus.TextFormatter{FullTimestamp: true}
	}

	if isTerminal(out) {
		return &logrus.TextFormatter{FullTimestamp: true}
	}
	return &logrus.JSONFormatter{}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
