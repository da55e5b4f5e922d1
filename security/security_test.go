package security

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateContentType(t *testing.T) {
	assert.True(t, ValidateContentType("application/json"))
	assert.True(t, ValidateContentType("application/json; charset=UTF-8"))
	assert.True(t, ValidateContentType("multipart/form-data; boundary=xyz"))
	assert.False(t, ValidateContentType("text/xml"))
	assert.False(t, ValidateContentType(""))
}

func TestSanitizeHeadersLeavesOriginalIntact(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer abc")
	h.Set("Cookie", "sid=1")
	h.Set("Accept", "application/json")

	clean := SanitizeHeaders(h)

	assert.Empty(t, clean.Get("Authorization"))
	assert.Empty(t, clean.Get("Cookie"))
	assert.Equal(t, "application/json", clean.Get("Accept"))
	assert.Equal(t, "Bearer abc", h.Get("Authorization"))
}

func TestRedactQuery(t *testing.T) {
	assert.Equal(t, "/api/ws?page=2&token=redacted", RedactQuery("/api/ws?token=eyJhbGci.abc.def&page=2", "token"))
	assert.Equal(t, "/api/products?page=2", RedactQuery("/api/products?page=2", "token"))
	assert.Equal(t, "/api/cart", RedactQuery("/api/cart", "token"))
	assert.Equal(t, "/api/cart", RedactQuery("/api/cart?token=%zz", "token"))
}
