package server

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec lets connect carry plain Go structs as application/json.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// ClientOptions are the options a connect client needs to talk to this
// server.
func ClientOptions() []connect.ClientOption {
	return []connect.ClientOption{connect.WithCodec(jsonCodec{})}
}
