// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package environment

import (
	"os"
	"sort"
	"strings"
)

// Snapshot is an immutable copy of a set of configuration key/value pairs
type Snapshot struct {
	values map[string]string
}

// FromEnviron builds a Snapshot from KEY=VALUE entries in the form returned by os.Environ.
// The value begins after the first '='.  Entries without an '=' or with an empty key are
// skipped, and a later entry for the same key replaces an earlier one.
func FromEnviron(environ []string) Snapshot {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || len(key) == 0 {
			continue
		}

		values[key] = value
	}

	return Snapshot{values: values}
}

// FromMap copies m into a new Snapshot
func FromMap(m map[string]string) Snapshot {
	values := make(map[string]string, len(m))
	for k, v := range m {
		values[k] = v
	}

	return Snapshot{values: values}
}

// Capture snapshots the current process environment
func Capture() Snapshot {
	return FromEnviron(os.Environ())
}

// Merge returns a new Snapshot holding this snapshot's entries overlaid with the given ones.
// This Snapshot is unchanged.
func (s Snapshot) Merge(overlay map[string]string) Snapshot {
	values := make(map[string]string, len(s.values)+len(overlay))
	for k, v := range s.values {
		values[k] = v
	}

	for k, v := range overlay {
		values[k] = v
	}

	return Snapshot{values: values}
}

// Lookup returns the raw value for key and whether the key is present at all
func (s Snapshot) Lookup(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Get returns the raw value for key, or fallback if the key is absent.  A key that is
// present with an empty value yields the empty string.
func (s Snapshot) Get(key, fallback string) string {
	if v, ok := s.values[key]; ok {
		return v
	}

	return fallback
}

// Present tests whether key is set to a non-empty value
func (s Snapshot) Present(key string) bool {
	return len(s.values[key]) > 0
}

// Len returns the number of entries
func (s Snapshot) Len() int {
	return len(s.values)
}

// Keys returns the sorted keys of this Snapshot
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}

// Each invokes f for every entry in key order
func (s Snapshot) Each(f func(key, value string)) {
	for _, k := range s.Keys() {
		f(k, s.values[k])
	}
}
