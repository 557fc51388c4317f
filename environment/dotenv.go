package environment

import (
	"fmt"

	"github.com/joho/godotenv"
)

// WithEnvFiles overlays the entries of one or more dotenv files onto s, later files winning.
// The process environment itself is never modified.
func WithEnvFiles(s Snapshot, files ...string) (Snapshot, error) {
	for _, f := range files {
		overlay, err := godotenv.Read(f)
		if err != nil {
			return s, fmt.Errorf("unable to read env file %s: %w", f, err)
		}

		s = s.Merge(overlay)
	}

	return s, nil
}
