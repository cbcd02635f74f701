package imaging

// EncodingError reports inputs the encoder cannot turn into an image.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return "encoding: " + e.Reason
}
