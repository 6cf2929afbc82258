package tutorial

import (
	"strings"

	"golang.org/x/text/cases"
)

// CheckAnswer compares input against correct after trimming surrounding
// whitespace and folding case. No other normalization happens, so "sha 256"
// does not match "SHA-256".
func CheckAnswer(input, correct string) bool {
	want := strings.TrimSpace(correct)
	if want == "" {
		return false
	}
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(input)) == fold.String(want)
}
