package errors

import "errors"

var (
	// ErrDescriptorParse marks a torrent or metalink descriptor that could not be decoded.
	ErrDescriptorParse = errors.New("descriptor parse error")
	// ErrUnrecognizedURI is returned when a locator matches no known protocol.
	ErrUnrecognizedURI = errors.New("unrecognized URI or unsupported protocol")
	// ErrFileAccess is returned when a list file or input file cannot be opened.
	ErrFileAccess = errors.New("failed to open file")
	// ErrMalformedOption marks an inline key=value line that cannot be applied.
	ErrMalformedOption = errors.New("malformed option")
	// ErrMalformedPattern marks a parameterized URI that cannot be expanded.
	ErrMalformedPattern = errors.New("malformed parameterized URI")
	ErrChecksum         = errors.New("invalid checksum")
)
