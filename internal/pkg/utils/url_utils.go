package utils

import (
	"errors"
	"net/url"
	"strings"
)

// RedactURL keeps only scheme and host of raw. Providers put API keys in the path,
// query or userinfo, so everything else is replaced with "/...".
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "<unparseable-url>"
	}
	out := u.Scheme + "://" + u.Host
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		out += "/..."
	}
	return out
}

// redactedError replaces the message of an error while keeping it unwrappable.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// RedactURLError removes every occurrence of rawURL from err's message, including the
// URL quoted by a wrapped *url.Error. errors.Is and errors.As still see the original chain.
func RedactURLError(err error, rawURL string) error {
	if err == nil || rawURL == "" {
		return err
	}
	safe := RedactURL(rawURL)
	msg := strings.ReplaceAll(err.Error(), rawURL, safe)

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.URL != "" {
		msg = strings.ReplaceAll(msg, urlErr.URL, RedactURL(urlErr.URL))
	}
	return &redactedError{msg: msg, err: err}
}
