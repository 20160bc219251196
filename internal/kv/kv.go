// Package kv defines the small key-value contract the result cache
// stores through.
package kv

import "errors"

// ErrKeyNotFound signals a cache miss.
var ErrKeyNotFound = errors.New("kv: key not found")
