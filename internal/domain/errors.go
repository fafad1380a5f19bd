package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrRemote   = errors.New("remote data service failure")
)
