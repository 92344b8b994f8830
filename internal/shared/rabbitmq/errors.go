package rabbitmq

import "errors"

// Handler errors steer the dispatcher's ack decision. A plain error means
// the message is poison and goes to the DLQ; the wrappers below mark the
// two other outcomes.

type retryableError struct {
	err error
}

func (e retryableError) Error() string { return e.err.Error() }

func (e retryableError) Unwrap() error { return e.err }

// Retryable marks an error as transient: the delivery is nacked with
// requeue=true and the broker redelivers it.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return retryableError{err: err}
}

// IsRetryable reports whether the error is marked as retryable.
func IsRetryable(err error) bool {
	var r retryableError
	return errors.As(err, &r)
}

type dropError struct {
	err error
}

func (e dropError) Error() string { return e.err.Error() }

func (e dropError) Unwrap() error { return e.err }

// Drop marks an error as non-recoverable but harmless: the delivery is
// acknowledged and dropped with a warning. Used when the target entity does
// not exist and never will (retrying cannot help).
func Drop(err error) error {
	if err == nil {
		return nil
	}
	return dropError{err: err}
}

// IsDrop reports whether the error is marked for acknowledge-and-drop.
func IsDrop(err error) bool {
	var d dropError
	return errors.As(err, &d)
}
