package piping_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestDebugManual(t *testing.T) {
	var mu sync.Mutex
	var pending *http.Request
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Println("incoming", r.Method, r.URL.Path)
		if r.Method == "POST" {
			mu.Lock()
			pending = r
			mu.Unlock()
			w.WriteHeader(200)
			time.Sleep(2 * time.Second)
		} else {
			time.Sleep(300 * time.Millisecond)
			mu.Lock()
			req := pending
			mu.Unlock()
			buf := make([]byte, 10)
			n, err := req.Body.Read(buf)
			fmt.Println("GET-side delayed read of POST body:", n, err, string(buf[:n]))
			w.WriteHeader(200)
		}
	})
	server := httptest.NewServer(h)
	defer server.Close()

	go func() {
		resp, err := http.Post(server.URL+"/abc", "text/plain", strings.NewReader("hi"))
		fmt.Println("POST done", resp, err)
	}()
	time.Sleep(100 * time.Millisecond)
	resp, err := http.Get(server.URL + "/abc")
	fmt.Println("GET done", resp, err)
}
