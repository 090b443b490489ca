// Package envelope defines the wire format persisted in Redis for every
// cached value, and the key-rendering rules shared by the rest of the
// engine.
//
// No serialization library appears anywhere in the retrieval pack (xjson
// only pretty-prints for debug logging), so Envelope uses encoding/json
// directly: a self-describing, version-tolerant format matches the wire
// contract without inventing a bespoke binary layout. NullMarker is encoded
// as a dedicated boolean field rather than overloading a nil value, so a
// decoder can distinguish "no value was ever computed" from "the computed
// value is the zero value."
package envelope
