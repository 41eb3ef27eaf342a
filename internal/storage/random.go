package storage

// RandomState is the opaque generator snapshot carried in the save header.
// PCG holds the generator's binary marshaling and travels base64-encoded.
type RandomState struct {
	PCG []byte `json:"pcg"`
}

func (s RandomState) IsZero() bool {
	return len(s.PCG) == 0
}
