// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package addon

import "github.com/samber/oops"

// Error codes for addon manifest failures.
const (
	CodeInvalidManifest = "INVALID_MANIFEST"
	CodeIncompatibleAPI = "INCOMPATIBLE_API"
)

func errInvalidManifest(field, reason string) error {
	return oops.Code(CodeInvalidManifest).
		In("addon").
		With("field", field).
		Errorf("invalid manifest: %s", reason)
}

// ErrIncompatibleAPI creates an error for an addon requiring another event API version.
func ErrIncompatibleAPI(addon, constraint, version string) error {
	return oops.Code(CodeIncompatibleAPI).
		In("addon").
		With("addon", addon).
		With("constraint", constraint).
		With("api_version", version).
		Errorf("addon %s requires event API %s, have %s", addon, constraint, version)
}
