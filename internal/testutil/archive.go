// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bytes"
	"os"
	"testing"

	"github.com/klauspost/compress/zip"
)

// ZipEntry is one entry of a fixture archive. Names are stored verbatim, so
// tests can build archives with hostile paths such as "../../etc/passwd".
type ZipEntry struct {
	Name string
	Body string
	Dir  bool
}

// ZipBytes builds a zip archive in memory from entries, in order.
func ZipBytes(t testing.TB, entries []ZipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		if e.Dir {
			hdr.Method = zip.Store
			hdr.SetMode(os.ModeDir | 0o755)
		} else {
			hdr.SetMode(0o644)
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("failed to add zip entry %q: %v", e.Name, err)
		}
		if !e.Dir {
			if _, err := w.Write([]byte(e.Body)); err != nil {
				t.Fatalf("failed to write zip entry %q: %v", e.Name, err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish zip archive: %v", err)
	}
	return buf.Bytes()
}

// WriteZip writes a fixture archive built from entries to path.
func WriteZip(t testing.TB, path string, entries []ZipEntry) {
	t.Helper()
	if err := os.WriteFile(path, ZipBytes(t, entries), 0o644); err != nil {
		t.Fatalf("failed to write zip %s: %v", path, err)
	}
}
