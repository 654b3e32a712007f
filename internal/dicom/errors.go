package dicom

import "fmt"

// DecodeError is a structural decode failure: the buffer cannot be
// advanced past Offset without reading outside its bounds or through
// inconsistent framing. It is fatal to the decode call that raised it;
// any elements decoded before Offset remain usable.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("dicom: decode failed at offset %d: %s", e.Offset, e.Reason)
}

// decodeErrorf builds a DecodeError at the given byte offset.
func decodeErrorf(offset int, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
