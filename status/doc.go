// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package status implements the envprobe HTTP handlers.  Every route is an exact, literal
GET path answered from an environment.Snapshot captured at startup.

The feature-test variant adds a plain text fallback for unmatched paths and a /crash route
that terminates the process through a Terminator.
*/
package status
