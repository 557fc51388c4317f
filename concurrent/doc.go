// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package concurrent holds the start/stop contract shared by envprobe's long-running tasks:
the status listeners and the heartbeat loop.
*/
package concurrent
