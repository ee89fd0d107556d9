package validation

import (
	"testing"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

func TestAbsoluteURL(t *testing.T) {
	valid := []string{"https://parda.me", "http://localhost:8080/blog/", ""}
	for _, raw := range valid {
		if err := ozzo.Validate(raw, AbsoluteURL); err != nil {
			t.Fatalf("%q: unexpected error %v", raw, err)
		}
	}
	invalid := []string{"parda.me", "/posts/", "ftp://parda.me", "https://", "mailto:me@parda.me"}
	for _, raw := range invalid {
		if err := ozzo.Validate(raw, AbsoluteURL); err == nil {
			t.Fatalf("%q: expected error", raw)
		}
	}
}
