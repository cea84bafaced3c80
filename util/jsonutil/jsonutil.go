package jsonutil

import (
	"encoding/json"
	"fmt"

	"github.com/survata/survata-go/errortypes"
)

// Unmarshal unmarshals a byte slice into the specified data structure without
// performing any validation on the data. An unmarshal error is wrapped with a
// coded error type.
func Unmarshal(data []byte, v interface{}) error {
	err := json.Unmarshal(data, v)
	if err != nil {
		return &errortypes.MalformedResponse{
			Message: fmt.Sprintf("cannot unmarshal %T: %v", v, err),
		}
	}
	return nil
}

// Marshal marshals a data structure to a byte slice, wrapping any error with
// a coded error type.
func Marshal(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &errortypes.BadInput{
			Message: fmt.Sprintf("cannot marshal %T: %v", v, err),
		}
	}
	return data, nil
}

// IsValid reports whether data is a well-formed JSON document.
func IsValid(data []byte) bool {
	return json.Valid(data)
}
