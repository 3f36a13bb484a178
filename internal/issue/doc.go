// SPDX-License-Identifier: MPL-2.0

// Package issue provides structured, user-facing error construction for the
// CLI. ActionableError carries the operation, the resource involved, and
// fix suggestions so commands can render helpful failures instead of bare
// error strings.
package issue
