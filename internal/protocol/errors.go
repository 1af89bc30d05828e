// Package protocol implements the parkv wire format: identifiers and
// values, the tagged Message model, and the line-delimited codec.
package protocol

import "errors"

// The closed error taxonomy that flows out of decode/validate and, via
// wrapping, out of session dispatch. Callers match with errors.Is/errors.As
// rather than string comparison.
var (
	// ErrProtocol marks a malformed line, oversize line, unknown kind, bad
	// arity, or invalid identifier/value argument. Fatal to the connection.
	ErrProtocol = errors.New("protocol error")

	// ErrTooLong marks an encoded or decoded line exceeding MaxLineLen bytes,
	// including the terminating newline. A specialization of ErrProtocol.
	ErrTooLong = errors.New("line exceeds maximum length")

	// ErrOperationFailed marks a domain error in a data-plane op: empty
	// stack, non-integer operand, division by zero, key not found, unknown
	// table, duplicate table creation. Recoverable in auto-commit mode;
	// promoted to ErrTransactionFailed inside a transaction.
	ErrOperationFailed = errors.New("operation failed")

	// ErrTransactionFailed marks an OperationFailed that occurred inside a
	// transaction, or a non-blocking lock acquisition that would have
	// blocked. Triggers rollback of every table the session holds.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrIO marks a connection-level failure, terminating the session.
	ErrIO = errors.New("connection error")
)

// ProtocolError wraps ErrProtocol with a human-readable reason, suitable for
// sending back to the client verbatim in an ERROR response.
type ProtocolError struct {
	Reason string
	Err    error // wrapped cause, e.g. ErrTooLong; may be nil
}

func NewProtocolError(reason string) *ProtocolError {
	return &ProtocolError{Reason: reason, Err: ErrProtocol}
}

func (e *ProtocolError) Error() string { return e.Reason }

func (e *ProtocolError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrProtocol
}

// OperationFailedError wraps ErrOperationFailed with a human-readable
// reason, suitable for a FAILED response.
type OperationFailedError struct {
	Reason string
}

func NewOperationFailedError(reason string) *OperationFailedError {
	return &OperationFailedError{Reason: reason}
}

func (e *OperationFailedError) Error() string { return e.Reason }

func (e *OperationFailedError) Unwrap() error { return ErrOperationFailed }

// TransactionFailedError wraps ErrTransactionFailed with a human-readable
// reason, suitable for a FAILED response.
type TransactionFailedError struct {
	Reason string
}

func NewTransactionFailedError(reason string) *TransactionFailedError {
	return &TransactionFailedError{Reason: reason}
}

func (e *TransactionFailedError) Error() string { return e.Reason }

func (e *TransactionFailedError) Unwrap() error { return ErrTransactionFailed }
