package piping

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Cj-bc/piping-server/resources"
	"github.com/Cj-bc/piping-server/version"
)

// Reserved paths are served directly and never take part in a rendezvous.
const (
	reservedIndex      = "/"
	reservedNoScript   = "/noscript"
	reservedVersion    = "/version"
	reservedHelp       = "/help"
	reservedFaviconIco = "/favicon.ico"
	reservedRobotsTxt  = "/robots.txt"
)

var reservedPaths = []string{
	reservedIndex,
	reservedNoScript,
	reservedVersion,
	reservedHelp,
	reservedFaviconIco,
	reservedRobotsTxt,
}

func isReservedPath(path string) bool {
	for _, p := range reservedPaths {
		if p == path {
			return true
		}
	}
	return false
}

// serveReservedPath handles GET/HEAD on a reserved path. Reports whether the
// path was reserved.
func (s *Server) serveReservedPath(w http.ResponseWriter, req *http.Request) bool {
	switch req.URL.Path {
	case reservedIndex:
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		io.WriteString(w, resources.Index())
	case reservedNoScript:
		path := req.URL.Query().Get(resources.NoScriptPathQueryParameterName)
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		io.WriteString(w, resources.NoScriptHTML(path))
	case reservedVersion:
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		fmt.Fprintf(w, "%s (Go)\n", version.Version)
	case reservedHelp:
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		io.WriteString(w, resources.Help(s.baseURL(req)))
	case reservedFaviconIco:
		w.WriteHeader(http.StatusNoContent)
	case reservedRobotsTxt:
		w.WriteHeader(http.StatusNotFound)
	default:
		return false
	}
	return true
}

// baseURL composes the server's base URL for the help text. Scheme is https
// when the server itself terminates TLS or a proxy reports it via
// X-Forwarded-Proto; host falls back to the literal "hostname" when the
// request carries none.
func (s *Server) baseURL(req *http.Request) *url.URL {
	scheme := "http"
	if s.usesHTTPS || strings.Contains(req.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	host := req.Host
	if host == "" {
		host = "hostname"
	}
	u, err := url.Parse(scheme + "://" + host)
	if err != nil {
		u, _ = url.Parse("http://hostname/")
	}
	return u
}
