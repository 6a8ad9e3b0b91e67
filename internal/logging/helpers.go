package logging

import (
	"maps"
	"strings"

	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// WithFields attaches structured fields when the logger supports them.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}

	return logger
}

// WithAreaContext enriches logger with the content area and locale of the
// current operation. Empty values are skipped.
func WithAreaContext(logger interfaces.Logger, area, locale string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(area); trimmed != "" {
		fields["area"] = trimmed
	}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields["locale"] = trimmed
	}
	return WithFields(logger, fields)
}
