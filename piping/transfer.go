package piping

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/pkg/errors"

	"github.com/Cj-bc/piping-server/util"
)

// transferRequestFor derives the effective source of bytes and header
// metadata forwarded to the receiver. A multipart/form-data sender is
// re-rooted at its first part: the part's headers and body replace the outer
// ones and any remaining parts stay unread. Every other request passes
// through as-is.
func transferRequestFor(req *http.Request) (textproto.MIMEHeader, io.ReadCloser, error) {
	contentType := req.Header.Get("Content-Type")
	if contentType == "" {
		return textproto.MIMEHeader(req.Header), req.Body, nil
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		return textproto.MIMEHeader(req.Header), req.Body, nil
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, nil, errors.New("boundary not found")
	}
	part, err := multipart.NewReader(req.Body, boundary).NextPart()
	if err != nil {
		return nil, nil, errors.Wrap(err, "multipart error")
	}
	return part.Header, part, nil
}

// transfer wires the sender's effective body to the receiver's response and
// reports progress on the sender's sink. It returns once both the body copy
// and the progress emission are running; the participants' handlers stay
// parked until the engine releases them.
func (s *Server) transfer(path string, sd *sender, rv *receiver) {
	s.logger.Info().Msgf("Transfer start: '%s'", path)

	transferHeader, transferBody, err := transferRequestFor(sd.req)
	if err != nil {
		s.logger.Error().Err(err).Msgf("Transfer failed: '%s'", path)
		// The receiver has no response yet; abort its connection. The
		// sender's in-flight response simply ends.
		rv.failed = true
		close(rv.done)
		close(sd.sink)
		return
	}
	finishableBody := util.NewFinishDetectableReadCloser(transferBody)

	header := rv.w.Header()
	header["Content-Type"] = nil // not to sniff
	util.TransferHeaderIfPresent(header, transferHeader, "Content-Type")
	util.TransferHeaderIfPresent(header, transferHeader, "Content-Length")
	util.TransferHeaderIfPresent(header, transferHeader, "Content-Disposition")
	if util.CopyHeaderValues(header, sd.req.Header, "X-Piping") {
		header.Set("Access-Control-Expose-Headers", "X-Piping")
	}
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("X-Robots-Tag", "none")
	rv.w.WriteHeader(http.StatusOK)

	go func() {
		n, cerr := io.Copy(flushWriter{rv.w}, finishableBody)
		s.logger.Info().Msgf("DEBUG copied %d bytes err=%v", n, cerr)
		// A write-side failure ends the copy without a read error; report
		// termination either way.
		finishableBody.Finish()
		close(rv.done)
	}()

	go func() {
		sd.sink <- []byte("[INFO] Start sending to 1 receiver(s)...\n")
		<-finishableBody.FinishCh()
		sd.sink <- []byte("[INFO] Sent successfully!\n")
		s.logger.Info().Msgf("Transfer end: '%s'", path)
		close(sd.sink)
	}()
}

// flushWriter forwards each chunk to the receiver as soon as it is written.
type flushWriter struct {
	w http.ResponseWriter
}

func (fw flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if f, ok := fw.w.(http.Flusher); ok {
		f.Flush()
	}
	return n, err
}
