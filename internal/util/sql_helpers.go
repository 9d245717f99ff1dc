package util

// BoolToInt maps a flag onto the INTEGER columns used by every dialect.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
