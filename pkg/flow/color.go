package flow

import (
	"strconv"
	"strings"
)

// ContrastColor returns "#000000" or "#ffffff", whichever reads better on
// the given hex background. Brightness uses the YIQ weighting; values of
// 128 and above get black text. Unparseable input gets black.
func ContrastColor(background string) string {
	r, g, b, ok := parseHex(background)
	if !ok {
		return "#000000"
	}
	yiq := (r*299 + g*587 + b*114) / 1000
	if yiq >= 128 {
		return "#000000"
	}
	return "#ffffff"
}

func parseHex(s string) (r, g, b int, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
