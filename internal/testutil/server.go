// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FileServer serves fixed byte payloads by URL path and counts requests.
type FileServer struct {
	*httptest.Server

	mu    sync.Mutex
	files map[string][]byte
	hits  map[string]int
}

// ServeFiles starts an httptest server serving files (URL path -> content).
// Unknown paths return 404. The server is closed when the test ends.
func ServeFiles(t testing.TB, files map[string][]byte) *FileServer {
	t.Helper()

	fs := &FileServer{
		files: make(map[string][]byte, len(files)),
		hits:  make(map[string]int),
	}
	for path, data := range files {
		fs.files[path] = data
	}

	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.hits[r.URL.Path]++
		data, ok := fs.files[r.URL.Path]
		fs.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(data)
	}))
	t.Cleanup(fs.Close)

	return fs
}

// Set replaces or adds the payload served at path.
func (fs *FileServer) Set(path string, data []byte) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = data
}

// Hits returns how many requests path has received.
func (fs *FileServer) Hits(path string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits[path]
}

// URLFor returns the absolute URL of path on the server.
func (fs *FileServer) URLFor(path string) string {
	return fs.URL + path
}
