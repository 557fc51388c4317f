// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package status

import "os"

// CrashExitCode is the process exit code requested by the /crash route
const CrashExitCode = 1

// Terminator ends the process with an exit code.  Implementations normally do not return.
type Terminator interface {
	Terminate(code int)
}

// TerminatorFunc is a function type that implements Terminator
type TerminatorFunc func(int)

func (tf TerminatorFunc) Terminate(code int) {
	tf(code)
}

// Exit is the Terminator backed by os.Exit
var Exit Terminator = TerminatorFunc(os.Exit)
