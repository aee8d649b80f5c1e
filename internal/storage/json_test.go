package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONMapValueMarshalsToJSON(t *testing.T) {
	m := jsonMap{"confidence": 0.8, "type": "golden_cross"}
	v, err := m.Value()
	assert.NoError(t, err)
	assert.Contains(t, string(v.([]byte)), `"confidence":0.8`)
}

func TestJSONMapValueNilYieldsNilDriverValue(t *testing.T) {
	var m jsonMap
	v, err := m.Value()
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestJSONMapScanFromBytesAndString(t *testing.T) {
	var m jsonMap
	assert.NoError(t, m.Scan([]byte(`{"a":1}`)))
	assert.Equal(t, float64(1), m["a"])

	var m2 jsonMap
	assert.NoError(t, m2.Scan(`{"b":2}`))
	assert.Equal(t, float64(2), m2["b"])
}

func TestJSONMapScanNilAndEmptyYieldNilMap(t *testing.T) {
	m := jsonMap{"x": 1}
	assert.NoError(t, m.Scan(nil))
	assert.Nil(t, m)

	m2 := jsonMap{"x": 1}
	assert.NoError(t, m2.Scan([]byte{}))
	assert.Nil(t, m2)
}

func TestJSONMapScanRejectsUnsupportedType(t *testing.T) {
	var m jsonMap
	err := m.Scan(42)
	assert.Error(t, err)
}
