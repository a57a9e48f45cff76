package util

import (
	"net/http"
	"net/textproto"
)

// TransferHeaderIfPresent copies the named header from src to dst only when
// src carries it.
func TransferHeaderIfPresent(dst http.Header, src textproto.MIMEHeader, name string) {
	values := src.Values(name)
	if len(values) != 0 {
		dst.Set(name, values[0])
	}
}

// CopyHeaderValues copies every value of the named header from src to dst,
// preserving order of repeated values. Reports whether src had any.
func CopyHeaderValues(dst http.Header, src http.Header, name string) bool {
	values := src.Values(name)
	if len(values) == 0 {
		return false
	}
	dst[textproto.CanonicalMIMEHeaderKey(name)] = values
	return true
}
