// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility helpers, such as
// the OS name constants used when resolving per-platform config directories.
package platform
