// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetHomeDir points the platform's home and config directory variables at
// dir for the rest of the test. The previous values are restored by
// t.Setenv, so the test must not be parallel.
//
// Platform handling:
//   - Windows: USERPROFILE and APPDATA
//   - Linux/macOS: HOME and XDG_CONFIG_HOME (dir/.config)
func SetHomeDir(t testing.TB, dir string) {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		t.Setenv("USERPROFILE", dir)
		t.Setenv("APPDATA", dir)
	default:
		t.Setenv("HOME", dir)
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	}
}
