package errors

import (
	"errors"
	"fmt"
)

// Wrapf annotates err with a formatted message. A nil err stays nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func Is(err error, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func asChainError(err error) (*ChainError, bool) {
	var chainErr *ChainError
	if err == nil || !errors.As(err, &chainErr) {
		return nil, false
	}
	return chainErr, true
}

// IsChainError reports whether err wraps a ChainError with the given code.
func IsChainError(err error, code ErrorCode) bool {
	chainErr, ok := asChainError(err)
	return ok && chainErr.Code == code
}

// IsGlobalConfigError reports a configuration error that is not scoped to one chain.
// Such errors stop the daemon; chain scoped ones only disable their chain.
func IsGlobalConfigError(err error) bool {
	chainErr, ok := asChainError(err)
	return ok && chainErr.Code == ErrCodeConfig && chainErr.Chain == ""
}

// IsRetryable reports whether the next cycle may succeed without operator action.
func IsRetryable(err error) bool {
	chainErr, ok := asChainError(err)
	return ok && chainErr.IsRetryable()
}

// GetSeverity returns the severity used in logs. Errors outside the taxonomy are high.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityInfo
	}
	if chainErr, ok := asChainError(err); ok {
		return chainErr.Severity
	}
	return SeverityHigh
}
