package codec

import (
	"bytes"
	"encoding/gob"
)

// Marshal gob-encodes v with a fresh encoder, so the output is a pure
// function of the value. Queue entries are removed from sorted sets by
// byte identity, which needs equal inputs to always yield equal bytes.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes one gob-encoded value of type T.
func Unmarshal[T any](data []byte) (T, error) {
	var v T
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
