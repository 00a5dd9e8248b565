package lanes

import (
	"fmt"
	"time"
)

// FormatTimestamp renders an elapsed duration as "MM:SS". Minutes are
// unbounded (no hour rollover); sub-second remainders are truncated.
func FormatTimestamp(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
