// Copyright 2014 Manu Martinez-Almeida. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package debug holds the run mode shared by every gin-mime package and the
// debug printer used to trace registry changes.
package debug

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/mattn/go-isatty"
)

// EnvMode is the environment variable read at start up to pick the mode.
const EnvMode = "MIME_MODE"

const (
	// DebugMode indicates debug output is enabled.
	DebugMode = "debug"
	// ReleaseMode indicates debug output is disabled.
	ReleaseMode = "release"
	// TestMode indicates the module runs under go test.
	TestMode = "test"
)

const (
	debugCode = iota
	releaseCode
	testCode
)

const (
	green = "\033[97;42m"
	reset = "\033[0m"
)

var (
	mode     int32 = debugCode
	modeName atomic.Value

	// DefaultWriter is where debug lines go. os.Stdout by default.
	DefaultWriter io.Writer = os.Stdout

	// PrintFunc, when set, receives every debug line instead of DefaultWriter.
	PrintFunc func(format string, values ...any)
)

func init() {
	SetMode(os.Getenv(EnvMode))
}

// SetMode sets the run mode. An empty value selects DebugMode.
func SetMode(value string) {
	if value == "" {
		value = DebugMode
	}

	switch value {
	case DebugMode:
		atomic.StoreInt32(&mode, debugCode)
	case ReleaseMode:
		atomic.StoreInt32(&mode, releaseCode)
	case TestMode:
		atomic.StoreInt32(&mode, testCode)
	default:
		panic("mime mode unknown: " + value + " (available mode: debug release test)")
	}

	modeName.Store(value)
}

// Mode returns the current run mode.
func Mode() string {
	return modeName.Load().(string)
}

// IsDebugging reports whether debug lines are printed.
func IsDebugging() bool {
	return atomic.LoadInt32(&mode) == debugCode
}

// Print writes a debug line when in debug mode.
func Print(format string, values ...any) {
	if !IsDebugging() {
		return
	}

	if PrintFunc != nil {
		PrintFunc(format, values...)
		return
	}

	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(DefaultWriter, prefix()+format, values...)
}

func prefix() string {
	if isTerminal(DefaultWriter) {
		return green + "[MIME-debug]" + reset + " "
	}
	return "[MIME-debug] "
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
