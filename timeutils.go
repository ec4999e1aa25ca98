package movilidad

import (
	"time"
)

func iso8601From(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
