package writer

import "github.com/corewall/cacheshield/pkg/envelope"

// envelopeWithValue wraps a freshly guard-loaded value for the caller. The
// durable envelope (with its own timestamps and TTL) was already persisted
// by Request.WriteThrough; this one only carries the value back up the
// call stack.
func envelopeWithValue(typeName string, value []byte) *envelope.Envelope {
	env, err := envelope.New(value, false, typeName, envelope.Eternal, 0)
	if err != nil {
		// value/isNull/typeName/ttl/nowMs as constructed here can never
		// fail validate(); a non-nil err would indicate envelope's
		// invariants changed underneath this helper.
		panic(err)
	}
	return env
}
