package profile

import "errors"

// Profile service errors.
var (
	// ErrSerialize indicates the profile could not be encoded.
	ErrSerialize = errors.New("profile: serialize failed")
	// ErrDeserialize indicates the stored record could not be decoded.
	ErrDeserialize = errors.New("profile: deserialize failed")
	// ErrInvalidProfile indicates the decoded profile failed validation.
	ErrInvalidProfile = errors.New("profile: invalid profile")
	// ErrUnknownSchema indicates a schema version newer than this build.
	ErrUnknownSchema = errors.New("profile: unknown schema version")
	// ErrInvalidService indicates the service was built without its
	// required dependencies.
	ErrInvalidService = errors.New("profile: invalid service configuration")
)
