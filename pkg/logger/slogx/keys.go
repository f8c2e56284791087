package slogx

// Shared attribute keys.
const (
	ErrorKey = "error"
)
