package locator

import (
	"fmt"
	"reflect"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeResolution indicates the container could not produce a service
	CodeResolution = "RESOLUTION_FAILED"

	// CodeLocatorReset indicates an operation on a locator whose container was released
	CodeLocatorReset = "LOCATOR_RESET"

	// CodeTypeMismatch indicates a resolved instance is not assignable to the requested type
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeNilInstance indicates the container produced a nil instance
	CodeNilInstance = "NIL_INSTANCE"

	// CodeNotInjectable indicates property injection targeted something other than a struct pointer
	CodeNotInjectable = "NOT_INJECTABLE"

	// CodeUnsupportedLifetime indicates the container cannot honour a lifetime
	CodeUnsupportedLifetime = "UNSUPPORTED_LIFETIME"

	// CodeInvalidConstructor indicates a registration is not a usable constructor
	CodeInvalidConstructor = "INVALID_CONSTRUCTOR"

	// CodeInvalidArgument indicates an invalid argument supplied at construction time
	CodeInvalidArgument = "INVALID_ARGUMENT"

	// CodeNilContainer indicates a locator was built around a nil container
	CodeNilContainer = "NIL_CONTAINER"

	// CodeNoLocator indicates a context carries no locator
	CodeNoLocator = "NO_LOCATOR"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrResolution matches every ResolutionError with errors.Is.
var ErrResolution = errs.NewError(CodeResolution, "service resolution failed", nil)

// ErrNilContainer is returned when a locator is built around a nil container.
var ErrNilContainer = &ArgumentError{Code: CodeNilContainer, Argument: "container", Message: "container cannot be nil"}

// ErrInvalidArgument matches every ArgumentError with errors.Is.
var ErrInvalidArgument = errs.NewError(CodeInvalidArgument, "invalid argument", nil)

// ErrLocatorReset is returned by every operation of a locator whose container
// was released by Reset or Close.
var ErrLocatorReset = errs.NewError(CodeLocatorReset, "locator has been reset", nil)

// ErrTypeMismatch is returned when a resolved instance is not assignable to the requested type.
var ErrTypeMismatch = errs.NewError(CodeTypeMismatch, "type mismatch", nil)

// ErrNilServiceType is returned when a resolution names no service type. It matches ErrTypeMismatch.
var ErrNilServiceType = errs.NewError(CodeTypeMismatch, "type mismatch: service type is nil", nil)

// ErrNilInstance is returned when the container produced a nil instance.
var ErrNilInstance = errs.NewError(CodeNilInstance, "container returned a nil instance", nil)

// ErrNotInjectable is returned when property injection targets something other than a struct pointer.
var ErrNotInjectable = errs.NewError(CodeNotInjectable, "instance is not a pointer to a struct", nil)

// ErrUnsupportedLifetime is returned by registrars whose container cannot honour a lifetime.
var ErrUnsupportedLifetime = errs.NewError(CodeUnsupportedLifetime, "lifetime not supported by container", nil)

// ErrInvalidConstructor is returned when a registration is not a function returning at least one value.
var ErrInvalidConstructor = errs.NewError(CodeInvalidConstructor, "constructor must be a function returning at least one value", nil)

// ErrNoLocator is returned by FromContext when the context carries no locator.
var ErrNoLocator = errs.NewError(CodeNoLocator, "locator not found in context", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// NewTypeMismatchError creates an error for an instance that is not a want.
func NewTypeMismatchError(actual any, want reflect.Type) *errs.Error {
	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("type mismatch: got %T, want %s", actual, typeName(want)),
		nil,
	).WithContext("actual_type", fmt.Sprintf("%T", actual)).(*errs.Error)
}

// NewUnsupportedLifetimeError creates an error for a lifetime the container cannot honour.
func NewUnsupportedLifetimeError(lifetime Lifetime) *errs.Error {
	return errs.NewError(
		CodeUnsupportedLifetime,
		fmt.Sprintf("lifetime not supported by container: %s", lifetime),
		nil,
	).WithContext("lifetime", lifetime.String()).(*errs.Error)
}

// NewInvalidConstructorError creates an error for a registration that is not a constructor.
func NewInvalidConstructorError(constructor any) *errs.Error {
	return errs.NewError(
		CodeInvalidConstructor,
		fmt.Sprintf("constructor must be a function returning at least one value: got %T", constructor),
		nil,
	).WithContext("constructor_type", fmt.Sprintf("%T", constructor)).(*errs.Error)
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// ResolutionError reports that a service could not be produced by the container.
// It carries CodeResolution and matches ErrResolution.
type ResolutionError struct {
	// Type is the requested service type.
	Type reflect.Type
	// Key is the string key used to disambiguate the registration, if any.
	Key string
	// Err is the underlying container failure.
	Err error
}

// NewResolutionError creates a ResolutionError for the given type and key.
func NewResolutionError(serviceType reflect.Type, key string, cause error) *ResolutionError {
	return &ResolutionError{
		Type: serviceType,
		Key:  key,
		Err:  cause,
	}
}

func (e *ResolutionError) Error() string {
	ref := ServiceRef{Type: e.Type, Key: e.Key}
	if e.Err == nil {
		return fmt.Sprintf("failed to resolve service %s", ref)
	}

	return fmt.Sprintf("failed to resolve service %s: %v", ref, e.Err)
}

// Unwrap returns the underlying container failure.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is matches structured errors carrying CodeResolution.
func (e *ResolutionError) Is(target error) bool {
	t, ok := target.(*errs.Error)

	return ok && t.Code == CodeResolution
}

// GetCode returns CodeResolution.
func (e *ResolutionError) GetCode() string {
	return CodeResolution
}

// Coded returns the failure as a structured error with the service in its context.
func (e *ResolutionError) Coded() *errs.Error {
	return errs.NewError(CodeResolution, e.Error(), e.Err).
		WithContext("service", ServiceRef{Type: e.Type, Key: e.Key}.String()).(*errs.Error)
}

// IsResolutionError reports whether err is or wraps a ResolutionError.
func IsResolutionError(err error) bool {
	var target *ResolutionError

	return errs.As(err, &target)
}

// ArgumentError reports an invalid argument supplied at construction time.
// It matches ErrInvalidArgument and any structured error with its own code.
type ArgumentError struct {
	Code     string
	Argument string
	Message  string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Argument, e.Message)
}

// Is matches structured errors carrying CodeInvalidArgument or e.Code.
func (e *ArgumentError) Is(target error) bool {
	t, ok := target.(*errs.Error)

	return ok && (t.Code == CodeInvalidArgument || (e.Code != "" && t.Code == e.Code))
}

// GetCode returns the argument error's code.
func (e *ArgumentError) GetCode() string {
	if e.Code == "" {
		return CodeInvalidArgument
	}

	return e.Code
}

// =============================================================================
// SERVICE REFERENCES
// =============================================================================

// ServiceRef identifies a resolution request by type and optional key.
type ServiceRef struct {
	Type reflect.Type
	Key  string
}

// String returns a human-readable representation of the reference.
func (r ServiceRef) String() string {
	if r.Key == "" {
		return typeName(r.Type)
	}

	return fmt.Sprintf("%s[key=%s]", typeName(r.Type), r.Key)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
