// Package datauri parses and builds RFC 2397 "data:" URIs.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformed is returned when a string is not a valid data URI.
var ErrMalformed = errors.New("malformed data URI")

const prefix = "data:"

// DefaultMIME is used when a data URI omits its media type.
const DefaultMIME = "text/plain"

// IsDataURI reports whether s looks like a data URI.
func IsDataURI(s string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// Parse splits a data URI into its media type and decoded payload.
// Both base64 and percent-encoded payloads are accepted.
func Parse(s string) (mime string, data []byte, err error) {
	if !IsDataURI(s) {
		return "", nil, fmt.Errorf("%w: missing %q prefix", ErrMalformed, prefix)
	}
	header, payload, ok := strings.Cut(s[len(prefix):], ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing ','", ErrMalformed)
	}

	params := strings.Split(header, ";")
	mime = strings.TrimSpace(params[0])
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}
	if mime == "" {
		mime = DefaultMIME
	}

	if isBase64 {
		data, err = decodeBase64(payload)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return mime, data, nil
	}

	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return mime, []byte(unescaped), nil
}

// decodeBase64 accepts padded or unpadded payloads, ignoring whitespace.
func decodeBase64(payload string) ([]byte, error) {
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)
	if strings.HasSuffix(payload, "=") {
		return base64.StdEncoding.DecodeString(payload)
	}
	return base64.RawStdEncoding.DecodeString(payload)
}

// Encode builds a base64 data URI.
func Encode(mime string, data []byte) string {
	var sb strings.Builder
	sb.Grow(len(prefix) + len(mime) + len(";base64,") + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString(prefix)
	sb.WriteString(mime)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String()
}
