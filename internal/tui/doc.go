// SPDX-License-Identifier: MPL-2.0

// Package tui holds the interactive terminal pieces of mcpacker: the huh form
// that asks for a new pack's name and description, and the bubbletea model
// behind the browse command.
package tui
