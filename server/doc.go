// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package server provides the bootstrap shared by envprobe's binaries, from command line flags
and Viper configuration through to metrics listeners and signal handling.
*/
package server
