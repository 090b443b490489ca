package envelope

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Eternal is the TTL sentinel for an entry that never expires.
const Eternal int64 = -1

// MaxKeyLength is the longest rendered key stored verbatim. Longer keys are
// deterministically hashed, keeping a human-readable prefix for debugging.
const MaxKeyLength = 512

// Envelope is the payload wrapper persisted in Redis under
// "<cacheName>::<renderedKey>". IsNull distinguishes a cached-null result
// (NullMarker) from a zero-length domain value: decode must yield an
// unambiguous signal either way.
type Envelope struct {
	Value          []byte
	IsNull         bool
	Type           string
	TTL            int64 // seconds; Eternal (-1) means never expire
	CreatedTime    int64 // epoch ms
	LastAccessTime int64 // epoch ms
	VisitTimes     int64
	Version        int64 // strictly increases on each overwrite
}

// wireFormat is the JSON record actually written to Redis. It names every
// field the spec's wire format enumerates, including Expired, which this
// implementation always writes as false: expiry is derived from TTL and
// CreatedTime against the caller's own clock, never trusted from a decoded
// record written by a possibly different clock skew.
type wireFormat struct {
	Value          []byte `json:"value,omitempty"`
	IsNull         bool   `json:"null,omitempty"`
	Type           string `json:"type,omitempty"`
	TTL            int64  `json:"ttl"`
	CreatedTime    int64  `json:"createdTime"`
	LastAccessTime int64  `json:"lastAccessTime"`
	VisitTimes     int64  `json:"visitTimes"`
	Expired        bool   `json:"expired"`
	Version        int64  `json:"version"`
}

// New builds a fresh Envelope at version 1. ttlSeconds < 0 is normalized to
// Eternal.
func New(value []byte, isNull bool, typeName string, ttlSeconds int64, nowMs int64) (*Envelope, error) {
	if ttlSeconds < 0 {
		ttlSeconds = Eternal
	}
	e := &Envelope{
		Value:          value,
		IsNull:         isNull,
		Type:           typeName,
		TTL:            ttlSeconds,
		CreatedTime:    nowMs,
		LastAccessTime: nowMs,
		VisitTimes:     0,
		Version:        1,
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Envelope) validate() error {
	if e.VisitTimes < 0 {
		return ErrInvalidVisitTimes
	}
	if e.CreatedTime > e.LastAccessTime {
		return ErrCreatedAfterAccess
	}
	return nil
}

// Touch returns a copy of e with its access bookkeeping bumped: VisitTimes
// increments and LastAccessTime advances to nowMs. Called on every cache
// hit; it never changes Version, since touching is not an overwrite.
func (e *Envelope) Touch(nowMs int64) *Envelope {
	cp := *e
	cp.VisitTimes++
	if nowMs > cp.LastAccessTime {
		cp.LastAccessTime = nowMs
	}
	return &cp
}

// Overwrite produces the Envelope for a fresh write of value over prev
// (prev may be nil for a first write). Version strictly increases; the
// creation clock and access counters reset, since this is a new value, not
// an access of the old one.
func Overwrite(prev *Envelope, value []byte, isNull bool, typeName string, ttlSeconds int64, nowMs int64) *Envelope {
	version := int64(1)
	if prev != nil {
		version = prev.Version + 1
	}
	if ttlSeconds < 0 {
		ttlSeconds = Eternal
	}
	return &Envelope{
		Value:          value,
		IsNull:         isNull,
		Type:           typeName,
		TTL:            ttlSeconds,
		CreatedTime:    nowMs,
		LastAccessTime: nowMs,
		VisitTimes:     0,
		Version:        version,
	}
}

// Encode serializes e to its Redis wire format.
func Encode(e *Envelope) ([]byte, error) {
	if e == nil {
		return nil, ErrNilEnvelope
	}
	w := wireFormat{
		Value:          e.Value,
		IsNull:         e.IsNull,
		Type:           e.Type,
		TTL:            e.TTL,
		CreatedTime:    e.CreatedTime,
		LastAccessTime: e.LastAccessTime,
		VisitTimes:     e.VisitTimes,
		Expired:        false,
		Version:        e.Version,
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("envelope: encode failed: %w", err)
	}
	return b, nil
}

// Decode parses the Redis wire format back into an Envelope. Unknown JSON
// fields are silently ignored by encoding/json, satisfying the
// version-tolerant decode requirement; a missing or zero Version is
// normalized to 1 so pre-versioning records remain readable.
func Decode(data []byte) (*Envelope, error) {
	var w wireFormat
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	if w.Version < 1 {
		w.Version = 1
	}
	return &Envelope{
		Value:          w.Value,
		IsNull:         w.IsNull,
		Type:           w.Type,
		TTL:            w.TTL,
		CreatedTime:    w.CreatedTime,
		LastAccessTime: w.LastAccessTime,
		VisitTimes:     w.VisitTimes,
		Version:        w.Version,
	}, nil
}

// RenderKey builds the Redis key for (cacheName, key): "<cacheName>::<key>".
// Keys longer than MaxKeyLength are hashed down to a fixed-width digest
// prefixed by the first 48 bytes of the original key, keeping the stored key
// human-scannable without risking unbounded Redis key sizes.
func RenderKey(cacheName, key string) (string, error) {
	if cacheName == "" {
		return "", ErrEmptyCacheName
	}
	rendered := key
	if len(rendered) > MaxKeyLength {
		rendered = hashLongKey(rendered)
	}
	return cacheName + "::" + rendered, nil
}

const hashedKeyPrefixLen = 48

func hashLongKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	prefix := key
	if len(prefix) > hashedKeyPrefixLen {
		prefix = prefix[:hashedKeyPrefixLen]
	}
	return prefix + "#" + hex.EncodeToString(sum[:])
}
