// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package environment captures the process configuration once at startup and derives the
read-only views served by the status handlers: masked values, dependency presence flags,
and dependency scheme checks.

A Snapshot is immutable.  Every derived view is recomputed from it on demand, so handlers
can share one Snapshot across goroutines without locking.
*/
package environment
