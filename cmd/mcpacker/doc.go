// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for mcpacker.
//
// Every command handler receives the App, which loads configuration once per
// invocation and hands out the logger, the pack catalog and output printers.
package cmd
