package core

// error_messages.go maps run failures to short, coded messages for people
// operating the normaliser. Quote the code when reporting a problem.
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid fiscal year: a REF_DATE value does not start with a year
//	         Action: Check the row named in the log; values look like 2019-2020
//
//	VAL002 - Invalid number: an enrolment value is not a whole number
//	         Action: Remove symbols or notes from the VALUE column
//
//	VAL007 - Unresolved geography: a GEO value has no province and is not recognised
//	         Action: Add the name to provinces_territories or rerun with unresolved geographies tolerated
//
//	VAL008 - Invalid text: a text column holds a number or other non-text value
//	         Action: Check the column named in the log
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Column mismatch: configured columns are missing from the extract
//	         Action: Confirm the file is an enrolment extract with the expected headers
//
// # File Errors (FILE001-FILE099)
//
//	FILE002 - Invalid CSV: the file could not be parsed as CSV
//	FILE003 - Encoding error: the file is not in the configured encoding
//	FILE005 - Empty file: the file has no header row
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Cancelled: the run was interrupted
//	RUN002 - Timeout: the run exceeded RUN_TIMEOUT

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage contains a user-friendly error message with an action and code.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgFiscalYear = UserMessage{
		Message: "Invalid fiscal year",
		Action:  "Check the row named in the log; values look like 2019-2020",
		Code:    "VAL001",
	}
	msgNumber = UserMessage{
		Message: "Invalid enrolment number",
		Action:  "Remove symbols or notes from the VALUE column",
		Code:    "VAL002",
	}
	msgUnresolved = UserMessage{
		Message: "Geography could not be resolved to a province",
		Action:  "Add the name to provinces_territories or tolerate unresolved geographies",
		Code:    "VAL007",
	}
	msgText = UserMessage{
		Message: "A text column holds a non-text value",
		Action:  "Check the column named in the log",
		Code:    "VAL008",
	}
	msgMismatch = UserMessage{
		Message: "Configured columns are missing from the extract",
		Action:  "Confirm the file is an enrolment extract with the expected headers",
		Code:    "CFG001",
	}
	msgCancelled = UserMessage{
		Message: "Run was cancelled",
		Action:  "Start the run again when ready",
		Code:    "RUN001",
	}
	msgTimeout = UserMessage{
		Message: "Run timed out",
		Action:  "Raise RUN_TIMEOUT or process fewer files at once",
		Code:    "RUN002",
	}
)

// errorPatterns catch failures from outside the core that have no typed form.
var errorPatterns = []errorPattern{
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save the file as UTF-8 or set ENROL_INPUT_ENCODING",
			Code:    "FILE003",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file is empty",
			Action:  "Provide a CSV file with a header row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "context canceled",
		msg:     msgCancelled,
	},
	{
		pattern: "context deadline exceeded",
		msg:     msgTimeout,
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log for details",
	Code:    "UNK001",
}

// MapError converts an error into a user-friendly message. Typed core errors
// are matched first; anything else falls back to substring patterns.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var malformed *MalformedValueError
	if errors.As(err, &malformed) {
		switch malformed.Reason {
		case ReasonFiscalYear:
			return msgFiscalYear
		case ReasonNumber:
			return msgNumber
		default:
			return msgText
		}
	}

	var unresolved *UnresolvedGeographyError
	if errors.As(err, &unresolved) {
		return msgUnresolved
	}

	var mismatch *ConfigurationMismatchError
	if errors.As(err, &mismatch) {
		return msgMismatch
	}

	switch {
	case errors.Is(err, context.Canceled):
		return msgCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the UNK001 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
