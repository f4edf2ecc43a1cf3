// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for the user. Issue holds longer Markdown help for each class of
// failure, rendered with glamour when the CLI runs verbosely.
package issue
