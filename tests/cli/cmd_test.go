// SPDX-License-Identifier: MPL-2.0

// Package cli contains CLI integration tests using testscript.
//
// Each script in testdata runs the real packget command tree against a local
// catalog server, so downloads, listings and exit codes are checked end to
// end without touching the public API.
package cli

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	cmd "github.com/packget/packget/cmd/packget"
	"github.com/packget/packget/internal/testutil"
	"github.com/packget/packget/pkg/modpack"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"packget": cmd.Execute,
	})
}

// TestCLI runs all testscript tests in the testdata directory.
func TestCLI(t *testing.T) {
	srv := serveCatalog(t)

	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			env.Setenv("PACKGET_API_BASE_URL", srv.URL+"/")
			// Keep config lookups inside the sandbox.
			env.Setenv("HOME", env.WorkDir)
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
			env.Setenv("APPDATA", filepath.Join(env.WorkDir, "AppData"))
			env.Setenv("NO_COLOR", "1")
			return nil
		},
		// Continue running all tests even if one fails
		ContinueOnError: true,
	})
}

type fixtureFile struct {
	path, name string
	body       []byte
	sha1       string // defaults to the digest of body
}

// serveCatalog publishes the packs the scripts refer to:
//
//	ftb 79          Direwolf20, two mods
//	ftb 80          Broken, one file with a wrong digest
//	curseforge 500  Vault Hunters, one mod plus an overrides archive
//	curseforge 501  Trojan, an overrides archive escaping the pack root
func serveCatalog(t *testing.T) *testutil.FileServer {
	t.Helper()

	srv := testutil.ServeFiles(t, nil)
	srv.Set("/modpack/featured/10", mustJSON(t, map[string]any{"status": "success", "packs": []int{79, 80}}))
	srv.Set("/modpack/search/5", mustJSON(t, map[string]any{
		"status":     "success",
		"packs":      []int{79},
		"curseforge": []int{500},
	}))

	publish(t, srv, modpack.SourceFTB, 79, "Direwolf20", []fixtureFile{
		{path: "./mods/", name: "alpha.jar", body: []byte("alpha mod\n")},
		{path: "./config/", name: "beta.cfg", body: []byte("beta = true\n")},
	})
	publish(t, srv, modpack.SourceFTB, 80, "Broken", []fixtureFile{
		{path: "./mods/", name: "broken.jar", body: []byte("tampered\n"), sha1: testutil.SHA1Hex([]byte("original\n"))},
	})
	publish(t, srv, modpack.SourceCurseForge, 500, "Vault Hunters", []fixtureFile{
		{path: "./mods/", name: "gamma.jar", body: []byte("gamma mod\n")},
		{path: "./", name: modpack.OverridesArchive, body: testutil.ZipBytes(t, []testutil.ZipEntry{
			{Name: "overrides/", Dir: true},
			{Name: "overrides/config/", Dir: true},
			{Name: "overrides/config/vault.cfg", Body: "difficulty = hard\n"},
			{Name: "./overrides/kubejs/startup.js", Body: "// startup\n"},
		})},
	})
	publish(t, srv, modpack.SourceCurseForge, 501, "Trojan", []fixtureFile{
		{path: "./", name: modpack.OverridesArchive, body: testutil.ZipBytes(t, []testutil.ZipEntry{
			{Name: "overrides/ok.txt", Body: "fine\n"},
			{Name: "overrides/../../escape.txt", Body: "gotcha\n"},
		})},
	})

	return srv
}

// publish serves a pack document with a single version (id = pack id * 10)
// and that version's manifest.
func publish(t *testing.T, srv *testutil.FileServer, source modpack.Source, id int, name string, files []fixtureFile) {
	t.Helper()

	version := id * 10
	base := "/" + source.BasePath() + strconv.Itoa(id)

	descriptors := make([]modpack.FileDescriptor, 0, len(files))
	for _, f := range files {
		urlPath := "/files" + base + "/" + f.name
		srv.Set(urlPath, f.body)
		sum := f.sha1
		if sum == "" {
			sum = testutil.SHA1Hex(f.body)
		}
		descriptors = append(descriptors, modpack.FileDescriptor{
			URL:  srv.URLFor(urlPath),
			Name: f.name,
			Path: f.path,
			SHA1: sum,
			Size: int64(len(f.body)),
		})
	}

	srv.Set(base, mustJSON(t, map[string]any{
		"status":   "success",
		"id":       id,
		"name":     name,
		"synopsis": name + " for the integration tests",
		"authors":  []map[string]string{{"name": "alice"}},
		"versions": []map[string]any{{"id": version, "name": "1.0.0", "type": "release"}},
	}))
	srv.Set(base+"/"+strconv.Itoa(version), mustJSON(t, map[string]any{
		"status": "success",
		"id":     version,
		"name":   name,
		"parent": id,
		"files":  descriptors,
	}))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}
