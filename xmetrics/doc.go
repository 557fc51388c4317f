// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xmetrics builds the Prometheus registry for envprobe.  Metrics are declared up front as
Metric descriptors grouped into Modules, and the resulting Registry hands out both raw Prometheus
vectors and go-kit metrics wrapped around them.
*/
package xmetrics
