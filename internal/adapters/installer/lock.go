package installer

import "sync"

// Lock is the install lock. Every caller of the installer or the external
// compiler holds it, so package storage is never changed concurrently.
type Lock struct {
	sync.Mutex
}

// NewLock returns an unlocked install lock.
func NewLock() *Lock {
	return &Lock{}
}
