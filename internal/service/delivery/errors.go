package delivery

import "fmt"

// StorageError wraps a store failure observed by the coordinator. A
// StorageError from SelectAndDeliver leaves the unseen pool unchanged.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
