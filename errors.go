package extsort

import (
	"errors"
	"fmt"
)

// ErrSorterFinished is returned when items are pushed into a sorter whose
// output has already been finalized or abandoned.
var ErrSorterFinished = errors.New("extsort: sorter already finished")

// SerializationError represents an error that occurred while encoding an item
// for temporary storage.
type SerializationError struct {
	// Cause is the original error returned by the EncodeFunc
	Cause error
	// Context provides additional information about what was being serialized
	Context string
}

func (e *SerializationError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("serialization error in %s: %v", e.Context, e.Cause)
	}
	return fmt.Sprintf("serialization error: %v", e.Cause)
}

func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// NewSerializationError creates a SerializationError
func NewSerializationError(cause error, context string) error {
	return &SerializationError{Cause: cause, Context: context}
}

// DeserializationError represents an error that occurred while decoding an
// item back from temporary storage. It covers both decode failures and
// truncated or corrupted segment data.
type DeserializationError struct {
	// Cause is the original error returned by the DecodeFunc
	Cause error
	// Context provides additional information about what was being deserialized
	Context string
}

func (e *DeserializationError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("deserialization error in %s: %v", e.Context, e.Cause)
	}
	return fmt.Sprintf("deserialization error: %v", e.Cause)
}

func (e *DeserializationError) Unwrap() error {
	return e.Cause
}

// NewDeserializationError creates a DeserializationError
func NewDeserializationError(cause error, context string) error {
	return &DeserializationError{Cause: cause, Context: context}
}

// NewDiskError creates an error wrapping an underlying temporary-storage I/O error
func NewDiskError(err error, operation string) error {
	return fmt.Errorf("disk error during %s: %w", operation, err)
}
