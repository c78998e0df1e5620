package tui

import "errors"

// ErrMissingTrendService is returned when the trend service is not provided.
var ErrMissingTrendService = errors.New("tui: trend service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
