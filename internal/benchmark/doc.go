// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the hot paths of a pack download:
//   - CUE config loading and schema validation
//   - manifest resolution and JSON decoding
//   - sequential and parallel file dispatch with SHA-1 verification
//   - override archive extraction
//
// To generate a profile, run:
//
//	go test -run=^$ -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
