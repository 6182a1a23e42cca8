package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvariant matches every *InvariantError.
	ErrInvariant = errors.New("engine: invariant violation")
	// ErrPoolExhausted is wrapped by the pool when no identity is free.
	ErrPoolExhausted = errors.New("engine: identity pool exhausted")
	// ErrUnknownIdentity is returned for acknowledgements naming an id
	// outside the pool.
	ErrUnknownIdentity = errors.New("engine: unknown identity")
)

// InvariantError reports an internal consistency failure. A session that
// returns one refuses further work until it is reset.
type InvariantError struct {
	Op         string
	Detail     string
	Position   Position
	Transition *Transition
	Err        error
}

func violation(op string, pos Position, format string, args ...any) *InvariantError {
	return &InvariantError{Op: op, Position: pos, Detail: fmt.Sprintf(format, args...)}
}

func transitionViolation(op string, t Transition, format string, args ...any) *InvariantError {
	return &InvariantError{Op: op, Position: t.Position, Transition: &t, Detail: fmt.Sprintf(format, args...)}
}

func (e *InvariantError) Error() string {
	var b strings.Builder
	b.WriteString("engine: ")
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Detail)
	if e.Transition != nil {
		fmt.Fprintf(&b, " [%s]", e.Transition)
	} else if e.Position != NoPosition {
		fmt.Fprintf(&b, " [cell %d]", e.Position)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is makes errors.Is(err, ErrInvariant) hold for every InvariantError.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}
