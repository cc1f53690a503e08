// SPDX-License-Identifier: MPL-2.0

// Package acquire downloads the files of a pack manifest.
//
// HTTPFetcher retrieves one file, verifies its SHA-1 digest against the
// manifest, and writes it below the package root. Dispatcher runs a fetcher
// for every descriptor of a manifest, either sequentially or on a fixed pool
// of worker goroutines.
//
// The dispatcher reports the first failure and returns immediately. Workers
// that are still running are neither waited for nor cancelled, so files may
// keep appearing on disk after Run has returned an error.
package acquire
