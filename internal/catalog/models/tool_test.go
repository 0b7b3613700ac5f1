package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArray(t *testing.T) {
	var s StringArray
	require.NoError(t, s.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringArray{"a", "b"}, s)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, StringArray{}, s)

	assert.Error(t, s.Scan(42))

	v, err := StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringArray{"cap:x"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["cap:x"]`, v)
}

func TestJSONMap(t *testing.T) {
	var m JSONMap
	require.NoError(t, m.Scan(`{"website":"https://a.com","meta":{"x":1}}`))
	assert.Equal(t, JSONMap{"website": "https://a.com"}, m)

	v, err := JSONMap(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestRawJSON(t *testing.T) {
	var r RawJSON
	require.NoError(t, r.Scan([]byte(`[{"q":"x"}]`)))
	v, err := r.Value()
	require.NoError(t, err)
	assert.Equal(t, `[{"q":"x"}]`, v)

	v, err = RawJSON(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = RawJSON("{bad").Value()
	assert.Error(t, err)
}
