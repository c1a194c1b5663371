package stencil

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Codec provides content-type aware marshaling for snapshots.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// jsonCodec implements Codec for JSON.
type jsonCodec struct{}

// JSON returns a JSON codec.
func JSON() Codec { return &jsonCodec{} }

func (c *jsonCodec) ContentType() string { return "application/json" }

func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// msgpackCodec implements Codec for MessagePack.
type msgpackCodec struct{}

// MessagePack returns a MessagePack codec.
func MessagePack() Codec { return &msgpackCodec{} }

func (c *msgpackCodec) ContentType() string { return "application/msgpack" }

func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// yamlCodec implements Codec for YAML.
type yamlCodec struct{}

// YAML returns a YAML codec.
func YAML() Codec { return &yamlCodec{} }

func (c *yamlCodec) ContentType() string { return "application/yaml" }

func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// EncodeSnapshot serializes a snapshot with the given codec.
func EncodeSnapshot(c Codec, snap Snapshot) ([]byte, error) {
	data, err := c.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %s snapshot: %v", ErrMarshal, c.ContentType(), err)
	}
	return data, nil
}

// DecodeSnapshot deserializes a snapshot with the given codec. The
// result still passes through Import's validation before any of it
// reaches an engine.
func DecodeSnapshot(c Codec, data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := c.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s snapshot: %v", ErrUnmarshal, c.ContentType(), err)
	}
	return snap, nil
}
