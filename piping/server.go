// Package piping implements the path-keyed rendezvous relay: one sender and
// one receiver meet on an ad-hoc path and the sender's request body is
// streamed through to the receiver's response body.
package piping

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
)

// sender is a pending or matched data sender. Its own streaming response body
// is fed from sink: the transfer engine enqueues human-readable progress
// lines there and the sender's handler goroutine drains them.
type sender struct {
	req  *http.Request
	sink chan []byte
}

// receiver is a pending or matched data receiver. Its handler goroutine is
// parked on done while a peer (or the transfer engine) writes the response.
type receiver struct {
	w      http.ResponseWriter
	done   chan struct{}
	failed bool // set before done is closed when the transfer never produced a response
}

// Server joins senders and receivers per path and streams between them.
type Server struct {
	mu             sync.RWMutex // guards both maps as one unit
	pathToSender   map[string]*sender
	pathToReceiver map[string]*receiver
	usesHTTPS      bool
	logger         zerolog.Logger
}

func NewServer(usesHTTPS bool, logger zerolog.Logger) *Server {
	return &Server{
		pathToSender:   map[string]*sender{},
		pathToReceiver: map[string]*receiver{},
		usesHTTPS:      usesHTTPS,
		logger:         logger,
	}
}

// Handler classifies and serves a single HTTP exchange.
func (s *Server) Handler(w http.ResponseWriter, req *http.Request) {
	s.logger.Info().Msgf("%s %s %s", req.Method, req.URL, req.Proto)

	switch req.Method {
	case http.MethodGet, http.MethodHead:
		if s.serveReservedPath(w, req) {
			return
		}
		// If the receiver requests Service Worker registration
		// (from: https://speakerdeck.com/masatokinugawa/pwa-study-sw?slide=32)
		if req.Method == http.MethodGet && req.Header.Get("Service-Worker") == "script" {
			rejectRequest(w, http.StatusBadRequest, "[ERROR] Service Worker registration is rejected.\n")
			return
		}
		// HEAD on a user path registers as a receiver like GET; the
		// transport discards the body.
		s.registerOrMatchReceiver(w, req)
	case http.MethodPost, http.MethodPut:
		if isReservedPath(req.URL.Path) {
			rejectRequest(w, http.StatusBadRequest,
				fmt.Sprintf("[ERROR] Cannot send to the reserved path '%s'. (e.g. '/mypath123')\n", req.URL.Path))
			return
		}
		// Resumable upload using Content-Range might be supported in the
		// future. ref: https://github.com/httpwg/http-core/pull/653
		if len(req.Header.Values("Content-Range")) != 0 {
			rejectRequest(w, http.StatusBadRequest,
				fmt.Sprintf("[ERROR] Content-Range is not supported for now in %s\n", req.Method))
			return
		}
		s.registerOrMatchSender(w, req)
	case http.MethodOptions:
		// Preflight request
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Disposition, X-Piping")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)
	default:
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, "[ERROR] Unsupported method: %s.\n", req.Method)
	}
}

// registerOrMatchReceiver parks the receiver on its path, or hands it to the
// transfer engine when a sender is already waiting there.
func (s *Server) registerOrMatchReceiver(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	s.mu.Lock()
	if _, connected := s.pathToReceiver[path]; connected {
		s.mu.Unlock()
		rejectRequest(w, http.StatusBadRequest,
			fmt.Sprintf("[ERROR] Another receiver has been connected on '%s'.\n", path))
		return
	}
	rv := &receiver{w: w, done: make(chan struct{})}
	sd, matched := s.pathToSender[path]
	if matched {
		delete(s.pathToSender, path)
	} else {
		s.pathToReceiver[path] = rv
	}
	s.mu.Unlock()

	if matched {
		sd.sink <- []byte("[INFO] A receiver was connected.\n")
		s.transfer(path, sd, rv)
	}

	select {
	case <-rv.done:
	case <-req.Context().Done():
		if s.removeReceiver(path, rv) {
			// Still parked: no sender ever came.
			return
		}
		// A sender matched concurrently; let the transfer wind down
		// against the dead transport.
		<-rv.done
	}
	if rv.failed {
		panic(http.ErrAbortHandler)
	}
}

// registerOrMatchSender opens the sender's streaming response, then parks the
// sender on its path or hands it to the transfer engine when a receiver is
// already waiting there.
func (s *Server) registerOrMatchSender(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	s.mu.Lock()
	if _, connected := s.pathToSender[path]; connected {
		s.mu.Unlock()
		rejectRequest(w, http.StatusBadRequest,
			fmt.Sprintf("[ERROR] Another sender has been connected on '%s'.\n", path))
		return
	}
	sd := &sender{req: req, sink: make(chan []byte, 8)}
	rv, matched := s.pathToReceiver[path]
	if matched {
		delete(s.pathToReceiver, path)
	} else {
		s.pathToSender[path] = sd
	}
	s.mu.Unlock()

	// The sender's response opens before any matchmaking outcome is
	// reported so the sender observes its waiting state even when no
	// receiver ever comes. Full duplex keeps the HTTP/1 server from
	// discarding the still-unread request body when this response is
	// flushed; the transfer engine reads that body later.
	if fd, ok := w.(interface{ EnableFullDuplex() error }); ok {
		fd.EnableFullDuplex()
	}
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	if matched {
		sd.sink <- []byte("[INFO] 1 receiver(s) has/have been connected.\n")
		s.transfer(path, sd, rv)
	} else {
		sd.sink <- []byte("[INFO] Waiting for 1 receiver(s)...\n")
	}

	for {
		select {
		case chunk, ok := <-sd.sink:
			if !ok {
				return
			}
			w.Write(chunk)
			if flusher != nil {
				flusher.Flush()
			}
		case <-req.Context().Done():
			if s.removeSender(path, sd) {
				// Still parked: no receiver ever came.
				return
			}
			// A receiver matched concurrently; drain until the engine
			// closes the sink so it never blocks on a dead sender.
			for range sd.sink {
			}
			return
		}
	}
}

// removeSender drops the sender's registry entry if it is still parked.
func (s *Server) removeSender(path string, sd *sender) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.pathToSender[path]; ok && cur == sd {
		delete(s.pathToSender, path)
		return true
	}
	return false
}

// removeReceiver drops the receiver's registry entry if it is still parked.
func (s *Server) removeReceiver(path string, rv *receiver) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.pathToReceiver[path]; ok && cur == rv {
		delete(s.pathToReceiver, path)
		return true
	}
	return false
}

func rejectRequest(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	io.WriteString(w, message)
}
