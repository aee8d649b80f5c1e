package domain

import "errors"

var (
	// ErrInsufficientData is returned when a component is asked to
	// operate on fewer bars than its minimum requirement.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrAssetNotFound is returned when an asset lookup misses.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrRunNotFound is returned when an analysis run lookup misses.
	ErrRunNotFound = errors.New("analysis run not found")
)
