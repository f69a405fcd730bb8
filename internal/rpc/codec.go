// Package rpc defines the Connect RPC surface: message types, procedure
// paths, handler constructors and typed clients.
//
// Messages are plain Go structs carried as JSON, so the package registers its
// own codec under the "json" name on both handlers and clients.
package rpc

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// jsonCodec marshals plain structs with encoding/json.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %T: %w", v, err)
	}
	return nil
}

// WithJSON registers the JSON codec. Handlers and clients built by this
// package apply it automatically.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
