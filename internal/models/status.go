package models

import "strings"

// Status codes used by the loader in SLTKGRP and SLTKTRN. The schema is
// fixed-width, so codes are always trimmed before comparison.
const (
	StatusPreparing       = "P"
	StatusReady           = "R"
	StatusProcessing      = "O"
	StatusSuccess         = "X"
	StatusError           = "E"
	StatusCancelled       = "C"
	StatusValidationError = "V"
)

var statusLabels = map[string]string{
	StatusPreparing:       "Preparing",
	StatusReady:           "Ready",
	StatusProcessing:      "Processing",
	StatusSuccess:         "Success",
	StatusError:           "Error",
	StatusCancelled:       "Cancelled",
	StatusValidationError: "Validation Error",
}

// StatusLabel converts a status code to its human-readable text.
// Unrecognized codes map to "Unknown" rather than failing.
func StatusLabel(code string) string {
	if label, ok := statusLabels[strings.TrimSpace(code)]; ok {
		return label
	}
	return "Unknown"
}

// IsTerminal reports whether a group with this status code is finished and
// will never change again. Monitor loops stop once they observe one.
func IsTerminal(code string) bool {
	switch strings.TrimSpace(code) {
	case StatusSuccess, StatusError, StatusCancelled:
		return true
	}
	return false
}
