// SPDX-License-Identifier: MPL-2.0

// Package types defines small value types shared by the CLI, the catalog and
// the configuration layer. Each type validates itself and reports failures
// with a typed error that unwraps to a package sentinel.
//
// This package is a leaf dependency: it imports only the standard library.
package types
