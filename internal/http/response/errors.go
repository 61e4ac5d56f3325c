package response

import (
	"encoding/json"
	"net/http"

	"github.com/glambook/glambook-api/pkg/logger"
)

// ErrorResponse is the JSON body every error path writes.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error: message,
		Code:  code,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// Common error codes
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeRuleRejected  = "RULE_REJECTED"
	CodeSlotTaken     = "SLOT_TAKEN"
	CodeRateLimit     = "RATE_LIMIT_EXCEEDED"
	CodeInternalError = "INTERNAL_ERROR"
	CodeEmailExists   = "EMAIL_EXISTS"
)

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

// RuleRejected reports a well-formed request refused by a booking rule.
// Same status as BadRequest but a distinct code so clients can tell a
// malformed payload from a policy refusal.
func RuleRejected(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeRuleRejected)
}

// SlotTaken reports a race loss: the slot passed the availability check
// but another booking committed first.
func SlotTaken(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message, CodeSlotTaken)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}
