package environment

import "strings"

const (
	// MaskMarker replaces the hidden portion of a sensitive value
	MaskMarker = "****"

	// MaskPreserveLen is the number of leading characters kept when a value is long enough
	MaskPreserveLen = 4
)

// SensitivePatterns are matched against upper-cased keys.  A key containing any of them
// holds a value that must be masked before display.
var SensitivePatterns = []string{"KEY", "SECRET", "PASSWORD", "TOKEN"}

// Sensitive tests whether key names a value that must be masked.  Matching is case-insensitive.
func Sensitive(key string) bool {
	upper := strings.ToUpper(key)
	for _, p := range SensitivePatterns {
		if strings.Contains(upper, p) {
			return true
		}
	}

	return false
}

// Mask returns the display form of a sensitive value: the first MaskPreserveLen characters
// followed by MaskMarker when the value is longer than MaskPreserveLen, otherwise MaskMarker alone.
func Mask(value string) string {
	runes := []rune(value)
	if len(runes) > MaskPreserveLen {
		return string(runes[:MaskPreserveLen]) + MaskMarker
	}

	return MaskMarker
}

// Display returns the value for key as it may be shown to a caller
func Display(key, value string) string {
	if Sensitive(key) {
		return Mask(value)
	}

	return value
}

// Masked returns every entry of this Snapshot, with sensitive values masked
func (s Snapshot) Masked() map[string]string {
	masked := make(map[string]string, len(s.values))
	for k, v := range s.values {
		masked[k] = Display(k, v)
	}

	return masked
}
