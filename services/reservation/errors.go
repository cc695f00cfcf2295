package reservation

import (
	"fmt"

	"haven/models"
)

// FlowError is a machine-readable rejection from the reservation flow. Code
// identifies the reason; Field and Suggestion carry reason-specific context.
type FlowError struct {
	Code       string                     `json:"code"`
	Message    string                     `json:"message"`
	Field      string                     `json:"field,omitempty"`
	Suggestion *models.AvailabilityPeriod `json:"suggestion,omitempty"`
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	CodeSessionNotFound  = "sessionNotFound"
	CodeInvalidState     = "invalidState"
	CodeMissingField     = "missingField"
	CodeUnavailableRange = "unavailableRange"
	CodeUnknownChannel   = "unknownChannel"
	CodeConfirmInFlight  = "confirmInFlight"
	CodeInvalidDuration  = "invalidDuration"
	CodeInvalidDate      = "invalidDate"
)

func newFlowError(code, message string) *FlowError {
	return &FlowError{Code: code, Message: message}
}
