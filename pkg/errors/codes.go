package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes are grouped by module prefix: COMMON, MIS (mission), SCOR (scoring),
// ETH (ethics), ORC (orchestration), NSIL (report format), RPT (reporting).
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"

	// CodeOK is the sentinel for the absence of an error.
	CodeOK ErrorCode = "OK"
)

// Mission module error codes.
const (
	ErrCodeMissionNotFound      ErrorCode = "MIS_001"
	ErrCodeMissionAlreadyExists ErrorCode = "MIS_002"
	ErrCodeMissionInvalid       ErrorCode = "MIS_003"
)

// Scoring module error codes.
const (
	ErrCodeScoringFailed ErrorCode = "SCOR_001"
)

// Ethics module error codes.
const (
	ErrCodeSafeguardFailed ErrorCode = "ETH_001"
)

// Orchestration module error codes.
const (
	ErrCodeOrchestrationFailed ErrorCode = "ORC_001"
	ErrCodeRegionInvalid       ErrorCode = "ORC_002"
)

// NSIL format error codes.
const (
	ErrCodeNSILWriteFailed ErrorCode = "NSIL_001"
)

// Reporting module error codes.
const (
	ErrCodeReportNotFound         ErrorCode = "RPT_001"
	ErrCodeReportArchiveFailed    ErrorCode = "RPT_002"
	ErrCodeReportPublishFailed    ErrorCode = "RPT_003"
	ErrCodeReportGenerationFailed ErrorCode = "RPT_004"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,

	ErrCodeMissionNotFound:      http.StatusNotFound,
	ErrCodeMissionAlreadyExists: http.StatusConflict,
	ErrCodeMissionInvalid:       http.StatusBadRequest,

	ErrCodeScoringFailed:   http.StatusInternalServerError,
	ErrCodeSafeguardFailed: http.StatusUnprocessableEntity,

	ErrCodeOrchestrationFailed: http.StatusInternalServerError,
	ErrCodeRegionInvalid:       http.StatusBadRequest,

	ErrCodeNSILWriteFailed: http.StatusInternalServerError,

	ErrCodeReportNotFound:         http.StatusNotFound,
	ErrCodeReportArchiveFailed:    http.StatusInternalServerError,
	ErrCodeReportPublishFailed:    http.StatusInternalServerError,
	ErrCodeReportGenerationFailed: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",

	ErrCodeMissionNotFound:      "mission profile not found",
	ErrCodeMissionAlreadyExists: "mission profile already exists",
	ErrCodeMissionInvalid:       "invalid mission profile",

	ErrCodeScoringFailed:   "opportunity scoring failed",
	ErrCodeSafeguardFailed: "ethical safeguard evaluation failed",

	ErrCodeOrchestrationFailed: "opportunity orchestration failed",
	ErrCodeRegionInvalid:       "invalid region profile",

	ErrCodeNSILWriteFailed: "failed to serialize NSIL document",

	ErrCodeReportNotFound:         "intelligence report not found",
	ErrCodeReportArchiveFailed:    "failed to archive intelligence report",
	ErrCodeReportPublishFailed:    "failed to publish report event",
	ErrCodeReportGenerationFailed: "report generation failed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
