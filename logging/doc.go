// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package logging configures the go-kit loggers used by envprobe's binaries.

Output is written through a non-blocking writer, so a slow or stalled log sink never holds up
request handling or the heartbeat loop.  Entries that cannot be buffered are dropped and counted.
*/
package logging
