package security

import (
	"mime"
	"net/http"
	"net/url"
	"strings"
)

var allowedContentTypes = map[string]bool{
	"application/json":                  true,
	"application/x-www-form-urlencoded": true,
	"multipart/form-data":               true,
}

var sensitiveHeaders = []string{
	"Authorization",
	"Cookie",
	"Set-Cookie",
	"X-CSRF-Token",
}

// ValidateContentType reports whether a request body of this Content-Type
// is accepted. Parameters such as charset or boundary are ignored.
func ValidateContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return allowedContentTypes[mediaType]
}

// SanitizeHeaders returns a copy of headers without credentials, safe to log.
func SanitizeHeaders(headers http.Header) http.Header {
	clean := headers.Clone()
	for _, header := range sensitiveHeaders {
		clean.Del(header)
	}
	return clean
}

// RedactQuery masks the values of the given query parameters in a request
// URI. A query that does not parse is dropped.
func RedactQuery(uri string, keys ...string) string {
	path, rawQuery, ok := strings.Cut(uri, "?")
	if !ok {
		return uri
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return path
	}
	redacted := false
	for _, key := range keys {
		if query.Has(key) {
			query.Set(key, "redacted")
			redacted = true
		}
	}
	if !redacted {
		return uri
	}
	return path + "?" + query.Encode()
}
