package registry

import "errors"

// notFoundError is returned by Toggle for an unknown id.
type notFoundError struct{ id string }

func (e notFoundError) Error() string { return "instance not found: " + e.id }

// IsNotFound reports whether err indicates a missing instance id.
func IsNotFound(err error) bool {
	var nf notFoundError
	return errors.As(err, &nf)
}

// duplicateIDError is returned by Create when the id was already used.
// Ids are freshly generated, so seeing one is a programming error.
type duplicateIDError struct{ id string }

func (e duplicateIDError) Error() string { return "duplicate instance id: " + e.id }

// IsDuplicateID reports whether err indicates a reused id.
func IsDuplicateID(err error) bool {
	var d duplicateIDError
	return errors.As(err, &d)
}
