package typing

// UnknownFinger labels characters outside the touch-typing map.
const UnknownFinger = "Unknown"

// fingerMap assigns lowercase QWERTY keys and space to the finger that
// types them in standard touch typing.
var fingerMap = buildFingerMap()

func buildFingerMap() map[rune]string {
	rows := map[string]string{
		"qaz":    "L-Pinky",
		"wsx":    "L-Ring",
		"edc":    "L-Middle",
		"rtfgvb": "L-Index",
		"yuhjnm": "R-Index",
		"ik":     "R-Middle",
		"ol":     "R-Ring",
		"p":      "R-Pinky",
		" ":      "Thumb",
	}
	out := make(map[rune]string, 27)
	for keys, finger := range rows {
		for _, r := range keys {
			out[r] = finger
		}
	}
	return out
}

// FingerFor returns the finger label for r, or UnknownFinger.
func FingerFor(r rune) string {
	if finger, ok := fingerMap[r]; ok {
		return finger
	}
	return UnknownFinger
}
