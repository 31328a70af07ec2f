package fields

import (
	"strings"
	"time"
)

var dateLayouts = []string{"2006-01-02", "02-01-2006"}

// ParseDate reads the leading date of s in YYYY-MM-DD, YYYY/MM/DD or
// DD/MM/YYYY form. En dashes count as hyphens. It reports false when s does
// not start with a parseable date.
func ParseDate(s string) (time.Time, bool) {
	f := strings.Fields(s)
	if len(f) == 0 {
		return time.Time{}, false
	}
	d := strings.NewReplacer("–", "-", "/", "-").Replace(f[0])
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, d); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
