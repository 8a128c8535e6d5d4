package emotion

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrRejected is returned by a Provider when the text cannot be analyzed.
	// The Scorer turns it into the all-null result.
	ErrRejected = errors.New("emotion provider rejected input")

	// ErrContractViolation matches provider responses that break the expected shape.
	ErrContractViolation = errors.New("emotion provider contract violation")

	// ErrTransport matches network failures, timeouts and unexpected statuses.
	ErrTransport = errors.New("emotion provider transport failure")

	// ErrTimeout matches transport failures caused by a deadline.
	ErrTimeout = errors.New("emotion provider timeout")
)

// Kind 区分提供方故障的类别。
type Kind int

const (
	KindContract Kind = iota + 1
	KindTransport
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindContract:
		return "contract"
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ProviderError describes a fault talking to the emotion provider.
type ProviderError struct {
	Kind     Kind
	Provider string
	Op       string
	Status   int
	Err      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s %s failure during %s", e.Provider, e.Kind, e.Op)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is lets callers match the sentinel errors. A timeout is also a transport failure.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrContractViolation:
		return e.Kind == KindContract
	case ErrTransport:
		return e.Kind == KindTransport || e.Kind == KindTimeout
	case ErrTimeout:
		return e.Kind == KindTimeout
	default:
		return false
	}
}

func contractError(provider, op string, err error) *ProviderError {
	return &ProviderError{Kind: KindContract, Provider: provider, Op: op, Err: err}
}

// transportError classifies err as a timeout when it comes from a deadline.
func transportError(provider, op string, status int, err error) *ProviderError {
	kind := KindTransport
	if isTimeout(err) {
		kind = KindTimeout
	}
	return &ProviderError{Kind: kind, Provider: provider, Op: op, Status: status, Err: err}
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
