// SPDX-License-Identifier: MPL-2.0

// Package overrides unpacks the overrides.zip archive shipped with CurseForge
// packs into the pack directory.
//
// Entries stored under a leading "overrides/" directory are remapped onto the
// pack root; other entries keep their stored path. Every entry name is checked
// component by component before anything is written, and names that could
// leave the pack root fail the extraction.
package overrides
