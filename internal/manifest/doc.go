// SPDX-License-Identifier: MPL-2.0

// Package manifest resolves pack manifests from the modpacks.ch public API.
//
// The package is organized into three concerns:
//   - client.go: HTTP client with functional options and capped JSON decoding
//   - resolve.go: version manifests and "latest" version selection
//   - catalog.go: pack info, listings, and search used by the CLI verbs
//
// Responses are decoded into explicit schema structs once, at this boundary.
// Transport failures surface as modpack.ErrNetwork and malformed bodies as
// modpack.ErrDecode.
package manifest
