package playback

import (
	"fmt"
	"strconv"
	"strings"
)

const wildcard = "*"

// NormalizeTimecode converts "H:M:S[:F]" into zero-padded "HH:MM:SS:FF".
// A missing frame field is 0. Fields must be one or two digits.
func NormalizeTimecode(raw string) (string, bool) {
	fields, ok := splitTimecode(raw, false)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d:%02d:%02d", fields[0], fields[1], fields[2], fields[3]), true
}

// MatchTimecode reports whether a cue's timecode trigger matches a
// normalized code. A "*" field in the trigger matches any value.
func MatchTimecode(trigger, code string) bool {
	want, ok := splitTimecode(trigger, true)
	if !ok {
		return false
	}
	got, ok := splitTimecode(code, false)
	if !ok {
		return false
	}
	for i := range want {
		if want[i] >= 0 && want[i] != got[i] {
			return false
		}
	}
	return true
}

// splitTimecode parses 3 or 4 colon-separated fields. Wildcard fields are
// returned as -1 when allowed.
func splitTimecode(raw string, allowWildcard bool) ([4]int, bool) {
	var out [4]int
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 3 || len(parts) > 4 {
		return out, false
	}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if allowWildcard && p == wildcard {
			out[i] = -1
			continue
		}
		if len(p) == 0 || len(p) > 2 || strings.Trim(p, "0123456789") != "" {
			return out, false
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return out, false
		}
		out[i] = n
	}
	return out, true
}
