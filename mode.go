// Copyright 2014 Manu Martinez-Almeida. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package ginMime

import "gin-mime/internal/debug"

// EnvMode indicates environment name for the run mode.
const EnvMode = debug.EnvMode

const (
	// DebugMode indicates mode is debug.
	DebugMode = debug.DebugMode
	// ReleaseMode indicates mode is release.
	ReleaseMode = debug.ReleaseMode
	// TestMode indicates mode is test.
	TestMode = debug.TestMode
)

// SetMode sets the run mode according to input string.
func SetMode(value string) {
	debug.SetMode(value)
}

// Mode returns current run mode.
func Mode() string {
	return debug.Mode()
}

// IsDebugging returns true if the framework is running in debug mode.
// Use SetMode(ReleaseMode) to disable debug mode.
func IsDebugging() bool {
	return debug.IsDebugging()
}

func debugPrint(format string, values ...any) {
	debug.Print(format, values...)
}

func assert1(guard bool, text string) {
	if !guard {
		panic(text)
	}
}
