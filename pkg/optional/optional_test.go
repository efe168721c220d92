package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOmittedVsNullVsSet(t *testing.T) {
	var payload struct {
		A Value[string] `json:"a"`
		B Value[string] `json:"b"`
		C Value[string] `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"b":null,"c":"set"}`), &payload))

	assert.False(t, payload.A.Present())
	assert.False(t, payload.A.IsNull())

	assert.True(t, payload.B.Present())
	assert.True(t, payload.B.IsNull())
	_, ok := payload.B.Get()
	assert.False(t, ok)

	assert.True(t, payload.C.Present())
	v, ok := payload.C.Get()
	assert.True(t, ok)
	assert.Equal(t, "set", v)
}

func TestConstructors(t *testing.T) {
	v := Of(42)
	assert.True(t, v.Present())
	got, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, got)

	n := Null[int]()
	assert.True(t, n.Present())
	assert.True(t, n.IsNull())
	assert.Nil(t, n.Ptr())
}
