// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/packget/packget/pkg/modpack"
)

// newAPI serves the given path -> JSON body routes and records User-Agent headers.
func newAPI(t *testing.T, routes map[string]any) (*httptest.Server, *atomic.Value) {
	t.Helper()

	var ua atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.Header.Get("User-Agent"))
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encoding %s: %v", r.URL.Path, err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &ua
}

func versions(ids ...int64) []versionWire {
	out := make([]versionWire, 0, len(ids))
	for _, id := range ids {
		out = append(out, versionWire{ID: id, Name: "v" + strings.Repeat("I", int(id%4))})
	}
	return out
}

func TestLatestVersion_SourceOrdering(t *testing.T) {
	t.Parallel()

	srv, _ := newAPI(t, map[string]any{
		"/modpack/79":    packWire{ID: 79, Name: "FTB pack", Versions: versions(100, 101, 102)},
		"/curseforge/12": packWire{ID: 12, Name: "CF pack", Versions: versions(902, 901, 900)},
	})
	client := NewClient(WithBaseURL(srv.URL))

	got, err := client.LatestVersion(context.Background(), modpack.SourceFTB, "79")
	if err != nil {
		t.Fatalf("FTB latest: %v", err)
	}
	if got != "102" {
		t.Errorf("FTB latest = %q, want 102 (last entry of oldest-first list)", got)
	}

	got, err = client.LatestVersion(context.Background(), modpack.SourceCurseForge, "12")
	if err != nil {
		t.Fatalf("CurseForge latest: %v", err)
	}
	if got != "902" {
		t.Errorf("CurseForge latest = %q, want 902 (first entry of newest-first list)", got)
	}
}

func TestLatestVersion_NoVersions(t *testing.T) {
	t.Parallel()

	srv, _ := newAPI(t, map[string]any{
		"/modpack/5": packWire{ID: 5, Name: "empty"},
	})
	client := NewClient(WithBaseURL(srv.URL))

	_, err := client.LatestVersion(context.Background(), modpack.SourceFTB, "5")
	if !errors.Is(err, ErrNoVersions) {
		t.Fatalf("expected ErrNoVersions, got %v", err)
	}
	if !errors.Is(err, modpack.ErrDecode) {
		t.Errorf("expected decode kind, got %v", err)
	}
}

func TestResolve_Latest(t *testing.T) {
	t.Parallel()

	files := []modpack.FileDescriptor{
		{URL: "http://cdn/a.jar", Name: "a.jar", Path: "./mods/", SHA1: "0123"},
		{URL: "http://cdn/options.txt", Name: "options.txt", Path: "./"},
	}
	srv, ua := newAPI(t, map[string]any{
		"/modpack/79":     packWire{ID: 79, Versions: versions(1, 2)},
		"/modpack/79/2":   versionManifestWire{ID: 2, Name: "1.0.1", Files: files},
		"/modpack/79/999": versionManifestWire{ID: 999},
	})
	client := NewClient(WithBaseURL(srv.URL))

	m, err := client.Resolve(context.Background(), modpack.SourceFTB, "79", modpack.LatestVersion)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Version != "2" || m.PackID != "79" || m.Source != modpack.SourceFTB {
		t.Errorf("unexpected manifest identity %+v", m)
	}
	if len(m.Files) != 2 || m.Files[0] != files[0] || m.Files[1] != files[1] {
		t.Errorf("files = %+v, want %+v", m.Files, files)
	}
	if got := ua.Load(); got != DefaultUserAgent {
		t.Errorf("User-Agent = %v, want %q", got, DefaultUserAgent)
	}
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/modpack/1/1":
			_, _ = w.Write([]byte(`{"files": [`))
		case "/modpack/2/1":
			_, _ = w.Write([]byte(`{"status": "error", "message": "Modpack not found"}`))
		case "/modpack/3/1":
			w.WriteHeader(http.StatusInternalServerError)
		case "/modpack/4/1":
			_, _ = w.Write([]byte(`{"files": [{"url": "http://x", "name": "a", "path": "../../etc"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	client := NewClient(WithBaseURL(srv.URL))

	tests := []struct {
		name     string
		packID   string
		version  string
		wantKind error
		wantErr  error
	}{
		{name: "truncated json", packID: "1", version: "1", wantKind: modpack.ErrDecode},
		{name: "api error payload", packID: "2", version: "1", wantKind: modpack.ErrDecode, wantErr: ErrPackNotFound},
		{name: "server error", packID: "3", version: "1", wantKind: modpack.ErrNetwork},
		{name: "escaping descriptor", packID: "4", version: "1", wantKind: modpack.ErrDecode},
		{name: "not found", packID: "9", version: "1", wantKind: modpack.ErrNetwork, wantErr: ErrPackNotFound},
		{name: "bad version", packID: "1", version: "../1", wantErr: ErrInvalidVersion},
		{name: "bad pack id", packID: "../1", version: "1", wantErr: modpack.ErrInvalidPackID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := client.Resolve(context.Background(), modpack.SourceFTB, tt.packID, tt.version)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantKind != nil && !errors.Is(err, tt.wantKind) {
				t.Errorf("error %v should wrap %v", err, tt.wantKind)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error %v should wrap %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolve_NetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := NewClient(WithBaseURL(base))
	_, err := client.Resolve(context.Background(), modpack.SourceFTB, "1", "1")
	if modpack.KindOf(err) != modpack.KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestPackInfo_NewestFirst(t *testing.T) {
	t.Parallel()

	srv, _ := newAPI(t, map[string]any{
		"/modpack/79": packWire{
			ID:          79,
			Name:        "Direwolf20",
			Description: "A **kitchen sink** pack",
			Authors:     []authorWire{{Name: "FTB"}, {Name: "Direwolf20"}},
			Versions:    versions(1, 2, 3, 4),
		},
		"/curseforge/7": packWire{ID: 7, Name: "RLCraft", Versions: versions(40, 30)},
	})
	client := NewClient(WithBaseURL(srv.URL))

	info, err := client.PackInfo(context.Background(), modpack.SourceFTB, "79")
	if err != nil {
		t.Fatalf("PackInfo: %v", err)
	}
	if info.Name != "Direwolf20" || len(info.Authors) != 2 {
		t.Errorf("unexpected info %+v", info)
	}
	var ids []string
	for _, v := range info.Versions {
		ids = append(ids, v.ID)
	}
	if strings.Join(ids, ",") != "4,3,2" {
		t.Errorf("FTB versions = %v, want newest three first", ids)
	}

	info, err = client.PackInfo(context.Background(), modpack.SourceCurseForge, "7")
	if err != nil {
		t.Fatalf("PackInfo: %v", err)
	}
	if len(info.Versions) != 2 || info.Versions[0].ID != "40" {
		t.Errorf("CurseForge versions = %+v, want source order kept", info.Versions)
	}
}

func TestListAndSearch(t *testing.T) {
	t.Parallel()

	var gotTerm atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/modpack/popular/plays/10":
			_ = json.NewEncoder(w).Encode(packListWire{Packs: []int64{1, 2, 3}})
		case "/modpack/search/5":
			gotTerm.Store(r.URL.Query().Get("term"))
			_ = json.NewEncoder(w).Encode(packListWire{Packs: []int64{9}, CurseForge: []int64{100, 200}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	client := NewClient(WithBaseURL(srv.URL))

	ids, err := client.List(context.Background(), ListingPlayed, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if strings.Join(ids, ",") != "1,2,3" {
		t.Errorf("List ids = %v", ids)
	}

	ids, err = client.Search(context.Background(), modpack.SourceCurseForge, "sky block", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if strings.Join(ids, ",") != "100,200" {
		t.Errorf("CurseForge search ids = %v", ids)
	}
	if gotTerm.Load() != "sky block" {
		t.Errorf("term = %v, want %q", gotTerm.Load(), "sky block")
	}

	ids, err = client.Search(context.Background(), modpack.SourceFTB, "sky", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if strings.Join(ids, ",") != "9" {
		t.Errorf("FTB search ids = %v", ids)
	}
}

func TestPackInfos_KeepsOrder(t *testing.T) {
	t.Parallel()

	routes := map[string]any{}
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		routes["/modpack/"+id] = packWire{Name: "pack-" + id}
	}
	srv, _ := newAPI(t, routes)
	client := NewClient(WithBaseURL(srv.URL))

	infos, err := client.PackInfos(context.Background(), modpack.SourceFTB, []string{"5", "3", "1", "4", "2"}, 3)
	if err != nil {
		t.Fatalf("PackInfos: %v", err)
	}
	for i, want := range []string{"pack-5", "pack-3", "pack-1", "pack-4", "pack-2"} {
		if infos[i].Name != want {
			t.Errorf("infos[%d] = %q, want %q", i, infos[i].Name, want)
		}
	}

	if _, err := client.PackInfos(context.Background(), modpack.SourceFTB, []string{"1", "missing"}, 2); !errors.Is(err, ErrPackNotFound) {
		t.Errorf("expected ErrPackNotFound for unknown id, got %v", err)
	}
}
