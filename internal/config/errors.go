package config

import "errors"

var (
	// ErrInvalidAppConfigs is returned when the application-level settings
	// fail validation (e.g. a negative user id).
	ErrInvalidAppConfigs = errors.New("invalid app configs")
)
