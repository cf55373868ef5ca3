package store

import "errors"

var ErrAccountNotFound = errors.New("account not found in store")
