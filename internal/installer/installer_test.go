// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"slices"
	"strconv"
	"testing"

	"github.com/packget/packget/internal/manifest"
	"github.com/packget/packget/internal/testutil"
	"github.com/packget/packget/pkg/modpack"
)

type packFile struct {
	name string
	path string
	body []byte
}

// publishPack serves a pack with a single version on srv: the pack document
// at /<base>/<id>, the version manifest at /<base>/<id>/<version>, and every
// file under /files/<id>/.
func publishPack(t *testing.T, srv *testutil.FileServer, source modpack.Source, id, version string, files []packFile) {
	t.Helper()
	for _, f := range files {
		srv.Set("/files/"+id+"/"+f.name, f.body)
	}
	publishManifest(t, srv, srv.URL, source, id, version, files)
}

// publishManifest serves only the API documents of a pack. Descriptor URLs
// point at fileHost/files/<id>/<name>.
func publishManifest(t *testing.T, srv *testutil.FileServer, fileHost string, source modpack.Source, id, version string, files []packFile) {
	t.Helper()

	base := "/" + source.BasePath()
	newest, err := strconv.Atoi(version)
	if err != nil {
		t.Fatal(err)
	}
	versions := []map[string]any{{"id": 1, "name": "old"}, {"id": newest, "name": "new"}}
	if source.LatestFirst() {
		slices.Reverse(versions)
	}
	pack, err := json.Marshal(map[string]any{
		"status":   "success",
		"name":     "Test Pack " + id,
		"versions": versions,
	})
	if err != nil {
		t.Fatal(err)
	}
	srv.Set(base+id, pack)

	descriptors := make([]map[string]any, 0, len(files))
	for _, f := range files {
		descriptors = append(descriptors, map[string]any{
			"url":  fileHost + "/files/" + id + "/" + f.name,
			"name": f.name,
			"path": f.path,
			"sha1": testutil.SHA1Hex(f.body),
		})
	}
	manifestDoc, err := json.Marshal(map[string]any{
		"status": "success",
		"name":   "Test Pack " + id,
		"files":  descriptors,
	})
	if err != nil {
		t.Fatal(err)
	}
	srv.Set(base+id+"/"+version, manifestDoc)
}

func newTestInstaller(srv *testutil.FileServer) *Installer {
	return NewInstaller(manifest.NewClient(manifest.WithBaseURL(srv.URL)))
}

func TestInstall_FTBLatest(t *testing.T) {
	t.Parallel()

	srv := testutil.ServeFiles(t, nil)
	files := []packFile{
		{name: "a.jar", path: "./mods/", body: []byte("mod a")},
		{name: "server.properties", path: "./", body: []byte("motd=hi")},
		{name: "client.cfg", path: "./config/deep/", body: []byte("x=1")},
	}
	publishPack(t, srv, modpack.SourceFTB, "79", "105", files)
	dest := t.TempDir()

	res, err := newTestInstaller(srv).Install(context.Background(), Request{
		Source:  modpack.SourceFTB,
		PackID:  "79",
		Version: modpack.LatestVersion,
		Root:    dest,
		Threads: 4,
	})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}

	if res.Manifest.Version != "105" {
		t.Errorf("resolved version = %q, want 105", res.Manifest.Version)
	}
	if res.Root != filepath.Join(dest, "79") {
		t.Errorf("Root = %q", res.Root)
	}
	var total int64
	for _, f := range files {
		total += int64(len(f.body))
		got := testutil.MustReadFile(t, filepath.Join(res.Root, filepath.FromSlash(f.path), f.name))
		if string(got) != string(f.body) {
			t.Errorf("%s%s = %q", f.path, f.name, got)
		}
	}
	if res.Files != len(files) || res.Bytes != total {
		t.Errorf("Result files=%d bytes=%d, want %d and %d", res.Files, res.Bytes, len(files), total)
	}
	if res.Extracted {
		t.Error("FTB packs have no overrides to extract")
	}
}

func TestInstall_CurseForgeExtractsOverrides(t *testing.T) {
	t.Parallel()

	srv := testutil.ServeFiles(t, nil)
	archive := testutil.ZipBytes(t, []testutil.ZipEntry{
		{Name: "overrides/", Dir: true},
		{Name: "overrides/config/", Dir: true},
		{Name: "overrides/config/pack.cfg", Body: "overridden"},
		{Name: "overrides/mods/extra.jar", Body: "extra"},
	})
	publishPack(t, srv, modpack.SourceCurseForge, "12", "900", []packFile{
		{name: "pack.cfg", path: "./config/", body: []byte("original")},
		{name: modpack.OverridesArchive, path: "./", body: archive},
	})
	dest := t.TempDir()

	res, err := newTestInstaller(srv).Install(context.Background(), Request{
		Source:  modpack.SourceCurseForge,
		PackID:  "12",
		Version: "900",
		Root:    dest,
		Threads: 1,
	})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !res.Extracted || res.Overrides.Files != 2 {
		t.Errorf("Extracted=%v overrides=%+v", res.Extracted, res.Overrides)
	}

	root := filepath.Join(dest, "12")
	if got := testutil.MustReadFile(t, filepath.Join(root, "config", "pack.cfg")); string(got) != "overridden" {
		t.Errorf("override should replace the downloaded file, got %q", got)
	}
	if got := testutil.MustReadFile(t, filepath.Join(root, "mods", "extra.jar")); string(got) != "extra" {
		t.Errorf("mods/extra.jar = %q", got)
	}
}

func TestInstall_CurseForgeUnsafeArchive(t *testing.T) {
	t.Parallel()

	srv := testutil.ServeFiles(t, nil)
	archive := testutil.ZipBytes(t, []testutil.ZipEntry{
		{Name: "overrides/ok.txt", Body: "ok"},
		{Name: "C:/Windows/evil.dll", Body: "evil"},
	})
	publishPack(t, srv, modpack.SourceCurseForge, "13", "5", []packFile{
		{name: modpack.OverridesArchive, path: "./", body: archive},
	})

	_, err := newTestInstaller(srv).Install(context.Background(), Request{
		Source: modpack.SourceCurseForge, PackID: "13", Version: "5", Root: t.TempDir(),
	})
	if !errors.Is(err, modpack.ErrInvalidArchiveEntry) {
		t.Fatalf("expected ErrInvalidArchiveEntry, got %v", err)
	}
}

func TestInstall_CurseForgeWithoutArchive(t *testing.T) {
	t.Parallel()

	srv := testutil.ServeFiles(t, nil)
	publishPack(t, srv, modpack.SourceCurseForge, "14", "5", []packFile{
		{name: "a.jar", path: "./mods/", body: []byte("a")},
	})

	_, err := newTestInstaller(srv).Install(context.Background(), Request{
		Source: modpack.SourceCurseForge, PackID: "14", Version: "5", Root: t.TempDir(),
	})
	if modpack.KindOf(err) != modpack.KindExtraction {
		t.Fatalf("expected an extraction error, got %v", err)
	}
}

func TestInstall_HashMismatchStopsBeforeExtraction(t *testing.T) {
	t.Parallel()

	srv := testutil.ServeFiles(t, nil)
	archive := testutil.ZipBytes(t, []testutil.ZipEntry{{Name: "overrides/x.txt", Body: "x"}})
	publishPack(t, srv, modpack.SourceCurseForge, "15", "5", []packFile{
		{name: "a.jar", path: "./mods/", body: []byte("genuine")},
		{name: modpack.OverridesArchive, path: "./", body: archive},
	})
	// Serve different bytes than the manifest digest describes.
	srv.Set("/files/15/a.jar", []byte("tampered"))
	dest := t.TempDir()

	res, err := newTestInstaller(srv).Install(context.Background(), Request{
		Source: modpack.SourceCurseForge, PackID: "15", Version: "5", Root: dest,
	})
	if !errors.Is(err, modpack.ErrHashMismatch) {
		t.Fatalf("expected ErrHashMismatch, got %v", err)
	}
	if res != nil {
		t.Error("no result on failure")
	}
	if testutil.Exists(filepath.Join(dest, "15", "mods", "a.jar")) {
		t.Error("mismatched file must not be written")
	}
	if testutil.Exists(filepath.Join(dest, "15", "x.txt")) {
		t.Error("overrides must not be extracted after a failed download")
	}
}

func TestInstall_ResolveErrors(t *testing.T) {
	t.Parallel()

	srv := testutil.ServeFiles(t, nil)
	inst := newTestInstaller(srv)

	_, err := inst.Install(context.Background(), Request{
		Source: modpack.SourceFTB, PackID: "404", Version: "1", Root: t.TempDir(),
	})
	if !errors.Is(err, manifest.ErrPackNotFound) {
		t.Errorf("expected ErrPackNotFound, got %v", err)
	}

	_, err = inst.Install(context.Background(), Request{
		Source: modpack.SourceFTB, PackID: "../etc", Version: "1", Root: t.TempDir(),
	})
	if !errors.Is(err, modpack.ErrInvalidPackID) {
		t.Errorf("expected ErrInvalidPackID, got %v", err)
	}
}
