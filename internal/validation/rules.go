package validation

import (
	"net/url"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// AbsoluteURL accepts only http(s) URLs with a host. Empty values pass so
// it composes with ozzo's Required.
var AbsoluteURL = ozzo.By(func(value any) error {
	s, _ := value.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !isAbsoluteURL(s) {
		return ozzo.NewError("validation_is_absolute_url", "must be an absolute http(s) URL")
	}
	return nil
})

// isAbsoluteURL reports whether raw parses with an http or https scheme and
// a non-empty host.
func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Host != "" && (u.Scheme == "http" || u.Scheme == "https")
}
