// Package core provides the business logic for the retail ETL pipeline.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Rejected rows in a load report and API error responses carry these codes.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A record with this ID already exists
//	        Patterns: "duplicate key"
//
//	DB002 - Unique constraint: This value must be unique but already exists
//	        Patterns: "unique constraint", "violates unique"
//
//	DB003 - Foreign key: Referenced record does not exist
//	        Action: Load customers and products before orders, orders before items and reviews
//	        Patterns: "foreign key constraint", "violates foreign key"
//
//	DB004 - Check constraint: Value is outside the allowed range
//	        Patterns: "violates check constraint"
//
//	DB005 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB006 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
//	DB007 - Timeout: Operation timed out
//	        Patterns: "timeout"
//
//	DB008 - Deadlock: Database was busy with conflicting operations
//	        Patterns: "deadlock"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date          Patterns: "invalid date"
//	VAL002 - Invalid number        Patterns: "invalid number"
//	VAL003 - Required field        Patterns: "required field"
//	VAL004 - Missing column        Patterns: "missing required column"
//	VAL005 - Invalid status        Patterns: "invalid order status"
//	VAL006 - Out of range          Patterns: "out of range"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File not found       Patterns: "no such file"
//	FILE002 - Invalid CSV          Patterns: "invalid csv"
//	FILE003 - Encoding error       Patterns: "encoding error"
//	FILE004 - No header            Patterns: "header not found"
//	FILE005 - Empty file           Patterns: "empty file"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled     Patterns: "context canceled"
//	REQ002 - Request timeout       Patterns: "context deadline exceeded"
//	REQ003 - Unknown view          Patterns: "unknown view"
//	REQ004 - Unknown table         Patterns: "unknown table"
//	REQ005 - Server busy           Patterns: "too many concurrent"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the application logs for
// the original technical error.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns come first.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgDuplicate = UserMessage{
		Message: "A record with this ID already exists",
		Action:  "Remove the duplicate row or enable upsert",
		Code:    "DB001",
	}
	msgUnique = UserMessage{
		Message: "This value must be unique but already exists",
		Action:  "Check for duplicate entries in your CSV",
		Code:    "DB002",
	}
	msgForeignKey = UserMessage{
		Message: "Referenced record does not exist",
		Action:  "Load customers and products before orders, orders before items and reviews",
		Code:    "DB003",
	}
	msgCheck = UserMessage{
		Message: "Value is outside the allowed range",
		Action:  "Check statuses, ratings, quantities and prices",
		Code:    "DB004",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// Database constraint errors
	{pattern: "duplicate key", msg: msgDuplicate},
	{pattern: "unique constraint", msg: msgUnique},
	{pattern: "violates unique", msg: msgUnique},
	{pattern: "foreign key constraint", msg: msgForeignKey},
	{pattern: "violates foreign key", msg: msgForeignKey},
	{pattern: "violates check constraint", msg: msgCheck},

	// Request errors, matched before the generic "timeout"
	{
		pattern: "context canceled",
		msg:     UserMessage{Message: "Request was cancelled", Action: "Please try again", Code: "REQ001"},
	},
	{
		pattern: "context deadline exceeded",
		msg:     UserMessage{Message: "Request timed out", Action: "Try again or raise the timeout", Code: "REQ002"},
	},

	// Database connection errors
	{
		pattern: "connection refused",
		msg:     UserMessage{Message: "Unable to connect to database", Action: "Please try again in a few moments", Code: "DB005"},
	},
	{
		pattern: "connection reset",
		msg:     UserMessage{Message: "Database connection was interrupted", Action: "Please try again", Code: "DB006"},
	},
	{
		pattern: "timeout",
		msg:     UserMessage{Message: "Operation timed out", Action: "Try a smaller file or try again later", Code: "DB007"},
	},
	{
		pattern: "deadlock",
		msg:     UserMessage{Message: "Database was busy with conflicting operations", Action: "Please try again", Code: "DB008"},
	},

	// Validation errors
	{
		pattern: "invalid date",
		msg:     UserMessage{Message: "Invalid date format detected", Action: "Use YYYY-MM-DD or DD/MM/YYYY", Code: "VAL001"},
	},
	{
		pattern: "invalid number",
		msg:     UserMessage{Message: "Invalid number format detected", Action: "Use a plain decimal number", Code: "VAL002"},
	},
	{
		pattern: "required field",
		msg:     UserMessage{Message: "Required field is empty", Action: "Ensure every ID column has a value", Code: "VAL003"},
	},
	{
		pattern: "missing required column",
		msg:     UserMessage{Message: "Required column is missing from CSV", Action: "Check the header row of the file", Code: "VAL004"},
	},
	{
		pattern: "invalid order status",
		msg: UserMessage{
			Message: "Order status is not recognised",
			Action:  "Use Pending, Processing, Shipped, Delivered, Cancelled or Returned",
			Code:    "VAL005",
		},
	},
	{
		pattern: "out of range",
		msg:     UserMessage{Message: "Value is out of range", Action: "Quantities must be positive and prices non-negative", Code: "VAL006"},
	},

	// File errors
	{
		pattern: "no such file",
		msg:     UserMessage{Message: "Source file not found", Action: "Check the input directory", Code: "FILE001"},
	},
	{
		pattern: "invalid csv",
		msg:     UserMessage{Message: "File is not a valid CSV", Action: "Check the delimiter and quoting", Code: "FILE002"},
	},
	{
		pattern: "encoding error",
		msg:     UserMessage{Message: "File contains invalid characters", Action: "Save the file as UTF-8", Code: "FILE003"},
	},
	{
		pattern: "header not found",
		msg:     UserMessage{Message: "No header row was found", Action: "Ensure the file starts with its column names", Code: "FILE004"},
	},
	{
		pattern: "empty file",
		msg:     UserMessage{Message: "The file is empty", Action: "Provide a CSV with data rows", Code: "FILE005"},
	},

	// Lookup errors
	{
		pattern: "unknown view",
		msg:     UserMessage{Message: "Unknown analytics view", Action: "List available views at /api/views", Code: "REQ003"},
	},
	{
		pattern: "unknown table",
		msg:     UserMessage{Message: "Unknown table", Action: "This table is not configured", Code: "REQ004"},
	},
	{
		pattern: "too many concurrent",
		msg:     UserMessage{Message: "Server is busy", Action: "Retry in a few seconds", Code: "REQ005"},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first matching pattern, or ERR000 when none match.
//
// Example:
//
//	err := errors.New("duplicate key violation")
//	msg := MapError(err)
//	// msg.Code == "DB001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
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

// IsUserFacing reports whether an error matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
