// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package status

import "github.com/xmidt-org/envprobe/xmetrics"

const (
	CrashRequestsTotal = "crash_requests_total"
)

// Metrics is the status module function
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name: CrashRequestsTotal,
			Type: xmetrics.CounterType,
			Help: "The total number of requests to /crash",
		},
	}
}
