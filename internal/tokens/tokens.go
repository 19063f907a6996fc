// Package tokens provides the approximate token accounting unit used for
// budgeting. The unit is tokenizer-independent: len/4 is close enough for
// budget decisions and needs no model dependency.
package tokens

// Estimate returns the approximate token cost of a string.
func Estimate(s string) int {
	if s == "" {
		return 0
	}
	return (len(s) + 3) / 4
}

// EstimateBytes returns the approximate token cost of a serialized blob.
func EstimateBytes(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	return (len(b) + 3) / 4
}
