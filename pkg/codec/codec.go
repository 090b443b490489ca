// Package codec defines the Codec contract the engine consumes to turn a
// domain value into the bytes an Envelope carries, and back. Serialization
// is out of scope for the engine itself (§1); this package is the narrow
// boundary plus a default adapter so tests and callers have something
// concrete to run against.
//
// No serialization library appears anywhere in the retrieval pack, so the
// default adapter wraps encoding/json directly, matching envelope's own
// choice for the wire format it sits next to.
package codec

import "encoding/json"

// Codec encodes a domain value to bytes and decodes it back. Decode must
// treat the null marker specially: callers never pass NullMarker bytes
// through Codec.Decode, since the envelope package tracks "is this a cached
// null" out of band via Envelope.IsNull.
type Codec interface {
	Encode(value any) ([]byte, error)
	Decode(data []byte, out any) error
}

// JSON is the default Codec, backed by encoding/json.
type JSON struct{}

func (JSON) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

func (JSON) Decode(data []byte, out any) error {
	return json.Unmarshal(data, out)
}

var _ Codec = JSON{}
