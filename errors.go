package tiec

import "fmt"

// DomainError reports a violated statistical precondition: a sample that is
// too small, a degenerate tail fraction, a zero-variance component, and so on.
type DomainError struct {
	// Op names the operation that rejected its input, e.g. "EstimateTailIndex".
	Op     string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("tiec: %s: %s", e.Op, e.Reason)
}

func domainErrorf(op, format string, args ...any) error {
	return &DomainError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports an invalid Config field or call argument.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("tiec: invalid %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NumericalWarning is a non-fatal condition raised while fitting, typically an
// optimizer that stopped at its iteration cap. The best candidate found is
// still used; warnings are collected on Fit and Result.
type NumericalWarning struct {
	Op string
	// Component is the 0-indexed mixture component being optimized, or -1.
	Component int
	Reason    string
}

func (w NumericalWarning) Error() string {
	if w.Component < 0 {
		return fmt.Sprintf("tiec: %s: %s", w.Op, w.Reason)
	}
	return fmt.Sprintf("tiec: %s: component %d: %s", w.Op, w.Component, w.Reason)
}
