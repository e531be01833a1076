package textutil

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// Truncate shortens value to at most limit runes and appends Ellipsis when
// anything was removed. A non-positive limit returns value unchanged.
func Truncate(value string, limit int) string {
	if limit <= 0 {
		return value
	}
	count := 0
	for idx := range value {
		if count == limit {
			return value[:idx] + Ellipsis
		}
		count++
	}
	return value
}
