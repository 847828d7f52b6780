package utils

import "github.com/microcosm-cc/bluemonday"

var (
	richText  = bluemonday.UGCPolicy()
	plainText = bluemonday.StrictPolicy()
)

// Sanitize keeps the formatting markup allowed in post bodies, comments and
// profile text and drops anything that could run script.
func Sanitize(input string) string {
	return richText.Sanitize(input)
}

// SanitizeText strips every tag, for single-line fields such as titles and
// hashtag names.
func SanitizeText(input string) string {
	return plainText.Sanitize(input)
}
