// Package validator checks caller-supplied payloads before any external
// call is made.
package validator

type Validator struct {
	maxTopK int
}

func New(maxTopK int) *Validator {
	if maxTopK <= 0 {
		maxTopK = 100
	}
	return &Validator{maxTopK: maxTopK}
}
