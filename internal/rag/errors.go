package rag

import "errors"

// ErrInvalidInput is returned for empty or whitespace-only queries, before
// any external call is made.
var ErrInvalidInput = errors.New("invalid input")
