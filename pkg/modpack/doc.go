// SPDX-License-Identifier: MPL-2.0

// Package modpack defines the data model shared by the pack acquisition engine:
// pack sources, manifests, file descriptors, and the error kinds every stage
// of the pipeline reports.
//
// A Manifest is produced once by the manifest resolver, handed to the download
// dispatcher, and discarded afterwards. FileDescriptor values are immutable and
// carry no identity beyond their fields.
package modpack
