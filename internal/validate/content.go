package validate

import "regexp"

var (
	words       = regexp.MustCompile(`\p{Han}{2,}|[A-Za-z]{2,}`)
	placeholder = regexp.MustCompile(`^[xX]+$`)
)

// HasRealContent reports whether value holds at least one real word: a run of
// two or more CJK characters, or a Latin word of two or more letters that is
// not an x-placeholder. Filler next to a real word still counts as content.
func HasRealContent(value string) bool {
	for _, w := range words.FindAllString(value, -1) {
		if !placeholder.MatchString(w) {
			return true
		}
	}
	return false
}
