package util

import (
	"net/http"
	"net/textproto"
	"testing"

	"gotest.tools/v3/assert"
)

func TestTransferHeaderIfPresent(t *testing.T) {
	src := textproto.MIMEHeader{}
	src.Set("Content-Type", "image/png")
	dst := http.Header{}

	TransferHeaderIfPresent(dst, src, "Content-Type")
	TransferHeaderIfPresent(dst, src, "Content-Length")

	assert.Equal(t, dst.Get("Content-Type"), "image/png")
	assert.Equal(t, len(dst.Values("Content-Length")), 0)
}

func TestCopyHeaderValues(t *testing.T) {
	src := http.Header{}
	src.Add("X-Piping", "a")
	src.Add("X-Piping", "b")
	dst := http.Header{}

	assert.Assert(t, CopyHeaderValues(dst, src, "X-Piping"))
	assert.DeepEqual(t, dst.Values("X-Piping"), []string{"a", "b"})

	assert.Assert(t, !CopyHeaderValues(dst, src, "X-Missing"))
}
