package transform

import (
	"strconv"
	"unicode/utf8"
)

// Separator sits between the original text and its length.
const Separator = " : "

// LengthSuffix appends the character count of text to text.
// "hello" becomes "hello : 5"; "" becomes " : 0".
func LengthSuffix(text string) string {
	return text + Separator + strconv.Itoa(utf8.RuneCountInString(text))
}
