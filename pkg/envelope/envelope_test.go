package envelope_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corewall/cacheshield/pkg/envelope"
)

func TestNewValidates(t *testing.T) {
	e, err := envelope.New([]byte("david"), false, "string", 300, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.Version)
	assert.Equal(t, int64(0), e.VisitTimes)
	assert.Equal(t, int64(1000), e.CreatedTime)
}

func TestNewNegativeTTLIsEternal(t *testing.T) {
	e, err := envelope.New([]byte("x"), false, "string", -5, 0)
	require.NoError(t, err)
	assert.Equal(t, envelope.Eternal, e.TTL)
}

func TestTouchBumpsAccessNotVersion(t *testing.T) {
	e, err := envelope.New([]byte("x"), false, "string", 300, 1000)
	require.NoError(t, err)

	touched := e.Touch(2000)
	assert.Equal(t, int64(1), touched.VisitTimes)
	assert.Equal(t, int64(2000), touched.LastAccessTime)
	assert.Equal(t, e.Version, touched.Version)
	assert.Equal(t, int64(0), e.VisitTimes, "original must be unmodified")
}

func TestOverwriteIncrementsVersion(t *testing.T) {
	first, err := envelope.New([]byte("a"), false, "string", 300, 1000)
	require.NoError(t, err)

	second := envelope.Overwrite(first, []byte("b"), false, "string", 300, 2000)
	assert.Equal(t, int64(2), second.Version)
	assert.Equal(t, int64(2000), second.CreatedTime)
	assert.Equal(t, int64(0), second.VisitTimes)

	third := envelope.Overwrite(second, []byte("c"), false, "string", 300, 3000)
	assert.Equal(t, int64(3), third.Version)
}

func TestOverwriteFromNilStartsAtOne(t *testing.T) {
	e := envelope.Overwrite(nil, []byte("a"), false, "string", 300, 1000)
	assert.Equal(t, int64(1), e.Version)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e, err := envelope.New([]byte(`{"id":1,"name":"David"}`), false, "User", 300, 1000)
	require.NoError(t, err)
	e = e.Touch(1500)

	data, err := envelope.Encode(e)
	require.NoError(t, err)

	decoded, err := envelope.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, e.Value, decoded.Value)
	assert.Equal(t, e.IsNull, decoded.IsNull)
	assert.Equal(t, e.Type, decoded.Type)
	assert.Equal(t, e.TTL, decoded.TTL)
	assert.Equal(t, e.CreatedTime, decoded.CreatedTime)
	assert.Equal(t, e.LastAccessTime, decoded.LastAccessTime)
	assert.Equal(t, e.VisitTimes, decoded.VisitTimes)
	assert.Equal(t, e.Version, decoded.Version)
}

func TestEncodeNilFails(t *testing.T) {
	_, err := envelope.Encode(nil)
	assert.ErrorIs(t, err, envelope.ErrNilEnvelope)
}

func TestDecodeUnknownFieldsIgnored(t *testing.T) {
	raw := []byte(`{"value":"aGk=","type":"string","ttl":60,"createdTime":1,"lastAccessTime":1,"visitTimes":0,"version":1,"futureField":"ignored"}`)
	e, err := envelope.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "string", e.Type)
}

func TestDecodeMissingVersionDefaultsToOne(t *testing.T) {
	raw := []byte(`{"value":"aGk=","type":"string","ttl":60,"createdTime":1,"lastAccessTime":1}`)
	e, err := envelope.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.Version)
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := envelope.Decode([]byte("not json"))
	assert.ErrorIs(t, err, envelope.ErrDecodeFailed)
}

func TestNullMarkerIsDistinguishable(t *testing.T) {
	e, err := envelope.New(nil, true, "", 60, 0)
	require.NoError(t, err)
	data, err := envelope.Encode(e)
	require.NoError(t, err)

	decoded, err := envelope.Decode(data)
	require.NoError(t, err)
	assert.True(t, decoded.IsNull)
	assert.Nil(t, decoded.Value)
}

func TestRenderKeyShort(t *testing.T) {
	key, err := envelope.RenderKey("users", "id:1")
	require.NoError(t, err)
	assert.Equal(t, "users::id:1", key)
}

func TestRenderKeyEmptyCacheName(t *testing.T) {
	_, err := envelope.RenderKey("", "id:1")
	assert.ErrorIs(t, err, envelope.ErrEmptyCacheName)
}

func TestRenderKeyLongIsHashedAndStable(t *testing.T) {
	long := strings.Repeat("x", envelope.MaxKeyLength+100)
	key1, err := envelope.RenderKey("users", long)
	require.NoError(t, err)
	key2, err := envelope.RenderKey("users", long)
	require.NoError(t, err)

	assert.Equal(t, key1, key2)
	assert.Less(t, len(key1), len(long))
	assert.True(t, strings.HasPrefix(key1, "users::"+long[:48]))
}
