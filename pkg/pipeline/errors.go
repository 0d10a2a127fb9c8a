package pipeline

import (
	"github.com/pkg/errors"
)

var (
	// ErrState classifies calls made in a state that does not allow them.
	ErrState = errors.New("illegal pipeline state")
	// ErrContract classifies arguments that break an operation's input contract.
	ErrContract = errors.New("contract violation")
)

var (
	ErrAlreadyConsumed = errors.Wrap(ErrState, "pipeline already consumed")
	ErrAlreadyCompiled = errors.Wrap(ErrState, "pipeline already compiled")
	ErrStaleHandle     = errors.Wrap(ErrState, "pipeline handle is stale")
	ErrNegativeSkip    = errors.Wrap(ErrContract, "skip must be non-negative")
	ErrNegativeLimit   = errors.Wrap(ErrContract, "limit must be non-negative")
	ErrNegativeSize    = errors.Wrap(ErrContract, "compile threshold must be non-negative")
	ErrUnknownStrategy = errors.Wrap(ErrContract, "unknown strategy")
	ErrTypeMismatch    = errors.Wrap(ErrContract, "value has unexpected type")
)

// violation marks an error raised by another package as a contract violation while keeping
// it reachable through errors.Is.
type violation struct {
	cause error
}

func (v *violation) Error() string { return ErrContract.Error() + ": " + v.cause.Error() }

func (v *violation) Unwrap() error { return v.cause }

func (v *violation) Is(target error) bool { return target == ErrContract }

func contractViolation(err error) error {
	return &violation{cause: err}
}

// IsStateError reports whether err comes from calling the pipeline in the wrong state.
func IsStateError(err error) bool {
	return errors.Is(err, ErrState)
}

// IsContractViolation reports whether err comes from an argument breaking an input contract.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContract)
}
