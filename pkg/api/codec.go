package api

import (
	"github.com/goccy/go-json"
)

// JSONCodec is a Connect codec for the plain Go message types in this
// package. It registers under the name "json", so clients and handlers
// negotiate the application/json content type.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string {
	return "json"
}

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

// Unmarshal implements connect.Codec. An empty body leaves message untouched.
func (JSONCodec) Unmarshal(data []byte, message any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, message)
}
