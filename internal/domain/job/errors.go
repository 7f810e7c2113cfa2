package job

import "errors"

// Validation failures. The messages are returned verbatim as 400 bodies.
//
//nolint:stylecheck,revive // messages are part of the HTTP contract
var (
	ErrInvalidParameter = errors.New("Invalid parameter")
	ErrMissingVideo     = errors.New("No video file provided.")
	ErrNoLiveImages     = errors.New("At least one live image is required.")
)

// IsValidationError reports whether err is one of the validation failures
// above.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrMissingVideo) ||
		errors.Is(err, ErrNoLiveImages)
}
