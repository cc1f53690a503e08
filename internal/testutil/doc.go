// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include home directory redirection (SetHomeDir),
// directory operations (MustChdir, MustMkdirAll), and fixtures for the pack
// acquisition engine: a file-serving HTTP server (ServeFiles) and a zip
// archive writer (WriteZip).
package testutil
