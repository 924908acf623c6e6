//go:build nocgo

package cue

import "errors"

// NewOtoBackend reports that audio output is not compiled in.
func NewOtoBackend() (Backend, error) {
	return nil, errors.New("audio not available in nocgo build")
}
