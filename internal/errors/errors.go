// Package errors provides centralized error definitions and error handling
// utilities for the costplan engine. It defines the analytical failure
// taxonomy (dependency cycles, unknown dependencies, invalid configuration,
// capacity deadlocks), error constructors with context, and classification
// helpers.
//
// All computations reject atomically: callers receive one of the typed
// errors below and no partial result.
//
// Creating errors:
//
//	// Cycle detected during validation, carrying the offending path
//	err := errors.NewCycleError([]string{"design", "build", "design"})
//
//	// Task references a nonexistent identifier
//	err := errors.NewUnknownDependencyError("deploy", "qa-signoff")
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrDependencyCycle) { ... }
//
//	var cycleErr *errors.CycleError
//	if errors.As(err, &cycleErr) {
//	    fmt.Println(cycleErr.Path)
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityWarning is for errors that reject a single request but leave
	// the engine healthy (almost everything input-driven).
	SeverityWarning Severity = iota
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that should be impossible given a
	// validated project, such as a scheduler deadlock.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Sentinel errors for the analytical failure taxonomy.
var (
	// ErrDependencyCycle indicates a circular dependency between tasks.
	ErrDependencyCycle = New("dependency cycle detected")
	// ErrUnknownDependency indicates a task depends on a nonexistent task.
	ErrUnknownDependency = New("unknown dependency")
	// ErrInvalidConfiguration indicates an out-of-range input value such as
	// a non-positive duration, a zero team size, or an iteration count
	// outside the accepted bounds.
	ErrInvalidConfiguration = New("invalid configuration")
	// ErrCapacityDeadlock indicates the resource-constrained scheduler
	// cannot make progress because a task demands more units than the team
	// can ever supply.
	ErrCapacityDeadlock = New("scheduler capacity deadlock")
	// ErrSimulationCanceled indicates a Monte Carlo run stopped before
	// dispatching all requested iterations.
	ErrSimulationCanceled = New("simulation canceled")
)

// EngineError is the base interface for all costplan errors. It extends the
// standard error interface with classification methods.
type EngineError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity {
	return e.severity
}

func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// CycleError reports a circular dependency between tasks. Path holds the
// offending cycle in dependency order; the first and last elements are the
// same task.
//
// Example:
//
//	err := errors.NewCycleError([]string{"a", "b", "a"})
//	fmt.Println(err) // dependency cycle detected: a -> b -> a
type CycleError struct {
	baseError
	Path []string
}

// NewCycleError creates a new CycleError from the cycle path.
func NewCycleError(path []string) *CycleError {
	return &CycleError{
		baseError: baseError{
			message:    "dependency cycle detected",
			cause:      ErrDependencyCycle,
			severity:   SeverityWarning,
			userFacing: true,
		},
		Path: path,
	}
}

// Error returns the formatted error message including the cycle path.
func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return e.message
	}
	return fmt.Sprintf("%s: %s", e.message, strings.Join(e.Path, " -> "))
}

// Is checks if this error matches the target.
func (e *CycleError) Is(target error) bool {
	if _, ok := target.(*CycleError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// UnknownDependencyError reports a task referencing a dependency identifier
// that does not exist in the project.
type UnknownDependencyError struct {
	baseError
	TaskID    string
	DependsOn string
}

// NewUnknownDependencyError creates a new UnknownDependencyError.
func NewUnknownDependencyError(taskID, dependsOn string) *UnknownDependencyError {
	return &UnknownDependencyError{
		baseError: baseError{
			message:    "unknown dependency",
			cause:      ErrUnknownDependency,
			severity:   SeverityWarning,
			userFacing: true,
		},
		TaskID:    taskID,
		DependsOn: dependsOn,
	}
}

// Error returns the formatted error message.
func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("task %q depends on unknown task %q", e.TaskID, e.DependsOn)
}

// Is checks if this error matches the target.
func (e *UnknownDependencyError) Is(target error) bool {
	if _, ok := target.(*UnknownDependencyError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ConfigError reports an invalid input value: non-positive durations or team
// sizes, negative costs, iteration counts outside bounds. Numerical edge
// cases are rejected here rather than silently special-cased downstream.
type ConfigError struct {
	baseError
	Field string
	Value any
}

// NewConfigError creates a new ConfigError.
func NewConfigError(message string) *ConfigError {
	return &ConfigError{
		baseError: baseError{
			message:    message,
			cause:      ErrInvalidConfiguration,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds the offending field name to the error context.
func (e *ConfigError) WithField(field string) *ConfigError {
	e.Field = field
	return e
}

// WithValue adds the offending value to the error context.
func (e *ConfigError) WithValue(value any) *ConfigError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ConfigError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "invalid configuration"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("invalid configuration [%s]", strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ConfigError) Is(target error) bool {
	if _, ok := target.(*ConfigError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidConfiguration) {
		return true
	}
	return e.baseError.Is(target)
}

// DeadlockError reports that the resource-constrained scheduler cannot make
// progress. With capacity >= 1 and an acyclic graph this should not occur
// unless a task demands more units than the whole team provides; it is
// detected defensively rather than looping forever.
type DeadlockError struct {
	baseError
	TaskID   string
	Required int
	Capacity int
}

// NewDeadlockError creates a new DeadlockError.
func NewDeadlockError(taskID string, required, capacity int) *DeadlockError {
	return &DeadlockError{
		baseError: baseError{
			message:    "scheduler cannot make progress",
			cause:      ErrCapacityDeadlock,
			severity:   SeverityCritical,
			userFacing: true,
		},
		TaskID:   taskID,
		Required: required,
		Capacity: capacity,
	}
}

// Error returns the formatted error message.
func (e *DeadlockError) Error() string {
	if e.TaskID == "" {
		return e.message
	}
	return fmt.Sprintf("scheduler cannot make progress: task %q requires %d units but capacity is %d",
		e.TaskID, e.Required, e.Capacity)
}

// Is checks if this error matches the target.
func (e *DeadlockError) Is(target error) bool {
	if _, ok := target.(*DeadlockError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// GetSeverity returns the severity level of the error. Returns SeverityError
// for errors that don't implement EngineError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityWarning
	}

	var engineErr EngineError
	if As(err, &engineErr) {
		return engineErr.Severity()
	}
	return SeverityError
}

// IsUserFacing returns true if the error message is safe to display to end
// users. Errors outside the engine taxonomy are treated as internal.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var engineErr EngineError
	if As(err, &engineErr) {
		return engineErr.IsUserFacing()
	}
	return false
}

// IsInputError returns true if the error rejects caller input rather than
// signaling an engine defect: cycles, unknown dependencies and configuration
// errors are input errors; deadlocks are not.
func IsInputError(err error) bool {
	return Is(err, ErrDependencyCycle) ||
		Is(err, ErrUnknownDependency) ||
		Is(err, ErrInvalidConfiguration)
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
