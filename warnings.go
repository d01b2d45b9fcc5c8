package docgrid

import (
	"fmt"
	"strings"
)

// WarningCode classifies a Warning.
type WarningCode int

const (
	// WarnClippedSpan means an HTML cell overlapped an earlier span and was
	// shrunk to the free region.
	WarnClippedSpan WarningCode = iota + 1
	// WarnGaps means a table has unoccupied coordinates, so navigating it
	// fails with model.ErrNotReady.
	WarnGaps
	// WarnIgnoredOption means an option does not apply to the input format.
	WarnIgnoredOption
)

func (c WarningCode) String() string {
	switch c {
	case WarnClippedSpan:
		return "clipped-span"
	case WarnGaps:
		return "gaps"
	case WarnIgnoredOption:
		return "ignored-option"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue found during extraction. The result is
// still usable but may not be what the caller expects.
type Warning struct {
	Code    WarningCode
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// FormatWarnings joins warnings into one line for logging.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
