// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

// Package errutil holds helpers for logging and asserting oops errors.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level on logger, or on slog.Default if logger is nil.
// For oops errors the code, domain and context are logged as separate
// attributes so the failing component can be found without parsing the message.
// Extra attrs are appended as given.
func LogError(logger *slog.Logger, msg string, err error, attrs ...any) {
	if logger == nil {
		logger = slog.Default()
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(msg, append([]any{"error", err}, attrs...)...)
		return
	}

	fields := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != nil && code != "" {
		fields = append(fields, "code", code)
	}
	if domain := oopsErr.Domain(); domain != "" {
		fields = append(fields, "domain", domain)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		fields = append(fields, "context", ctx)
	}
	logger.Error(msg, append(fields, attrs...)...)
}
