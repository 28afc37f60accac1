package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Database errors
	ErrMissingDatabase = fmt.Errorf("database file not found")
	ErrMissingSchema   = fmt.Errorf("missing schema")
	ErrMissingColumn   = fmt.Errorf("missing column")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
