package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents different categories of errors
type ErrorCode string

const (
	// ErrCodeFetch indicates the price source could not produce a snapshot
	ErrCodeFetch ErrorCode = "FETCH"

	// ErrCodeConfig indicates missing or invalid configuration
	ErrCodeConfig ErrorCode = "CONFIG"

	// ErrCodeOnChainRead indicates a contract read failed
	ErrCodeOnChainRead ErrorCode = "ONCHAIN_READ"

	// ErrCodeSafeguard indicates a computed price fell outside the allowed bounds
	ErrCodeSafeguard ErrorCode = "SAFEGUARD"

	// ErrCodeExecution indicates submission or confirmation of an update failed
	ErrCodeExecution ErrorCode = "EXECUTION"

	// ErrCodeInternal indicates internal system errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Severity represents the severity level of an error
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// ErrMissingSigner is matched by errors.Is for every MissingSignerError.
var ErrMissingSigner = errors.New("no signer configured")

// ChainError represents an error scoped to a single chain (or global when Chain is empty)
type ChainError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Chain    string                 `json:"chain,omitempty"`
	Severity Severity               `json:"severity"`
	Cause    error                  `json:"-"`
	Context  map[string]interface{} `json:"context,omitempty"`
}

// NewChainError creates a new ChainError
func NewChainError(code ErrorCode, chain, message string, cause error) *ChainError {
	return &ChainError{
		Code:     code,
		Message:  message,
		Chain:    chain,
		Severity: determineSeverity(code),
		Cause:    cause,
		Context:  make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *ChainError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Chain != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Chain, e.Code, e.Severity, msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, msg)
}

// Unwrap returns the underlying cause
func (e *ChainError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *ChainError) WithContext(key string, value interface{}) *ChainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity overrides the default severity
func (e *ChainError) WithSeverity(severity Severity) *ChainError {
	e.Severity = severity
	return e
}

// IsRetryable reports whether the same operation may succeed on a later cycle.
// Configuration errors and safeguard violations need operator action.
func (e *ChainError) IsRetryable() bool {
	switch e.Code {
	case ErrCodeFetch, ErrCodeOnChainRead, ErrCodeExecution:
		return true
	default:
		return false
	}
}

func determineSeverity(code ErrorCode) Severity {
	switch code {
	case ErrCodeInternal:
		return SeverityCritical
	case ErrCodeConfig, ErrCodeExecution:
		return SeverityHigh
	case ErrCodeFetch, ErrCodeOnChainRead:
		return SeverityMedium
	case ErrCodeSafeguard:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// NewFetchError creates a price source error
func NewFetchError(source, message string, cause error) *ChainError {
	return NewChainError(ErrCodeFetch, "", message, cause).WithContext("source", source)
}

// NewConfigError creates a configuration error. An empty chain marks it global.
func NewConfigError(chain, message string) *ChainError {
	return NewChainError(ErrCodeConfig, chain, message, nil)
}

// NewMissingSignerError creates the configuration error raised when a chain has no key.
func NewMissingSignerError(chain string) *ChainError {
	return NewChainError(ErrCodeConfig, chain, "missing signer for chain", ErrMissingSigner)
}

// NewOnChainReadError creates a contract read error
func NewOnChainReadError(chain, message string, cause error) *ChainError {
	return NewChainError(ErrCodeOnChainRead, chain, message, cause)
}

// NewSafeguardViolation creates a bounds violation. It is logged, never raised past the strategy.
func NewSafeguardViolation(chain, message string) *ChainError {
	return NewChainError(ErrCodeSafeguard, chain, message, nil)
}

// NewExecutionError creates a transaction submission or confirmation error
func NewExecutionError(chain, message string, cause error) *ChainError {
	return NewChainError(ErrCodeExecution, chain, message, cause)
}

// NewInternalError creates an internal error
func NewInternalError(chain, message string, cause error) *ChainError {
	return NewChainError(ErrCodeInternal, chain, message, cause)
}
