package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")

	ErrNotFound        = errors.New("no matching record")
	ErrConnectivity    = errors.New("backend unreachable")
	ErrMalformedInput  = errors.New("malformed input")
	ErrUpstreamTimeout = errors.New("upstream timed out")
)
