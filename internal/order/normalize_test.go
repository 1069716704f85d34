package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderIdentify_TopLevel(t *testing.T) {
	id, err := ParseOrderIdentify([]byte(`{"identify":"ORD-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", id)
}

func TestParseOrderIdentify_DataLevel(t *testing.T) {
	id, err := ParseOrderIdentify([]byte(`{"data":{"identify":"ORD-2"}}`))
	require.NoError(t, err)
	assert.Equal(t, "ORD-2", id)
}

func TestParseOrderIdentify_DataOrderLevel(t *testing.T) {
	id, err := ParseOrderIdentify([]byte(`{"data":{"order":{"identify":"ORD-3"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "ORD-3", id)
}

func TestParseOrderIdentify_OrderLevel(t *testing.T) {
	id, err := ParseOrderIdentify([]byte(`{"order":{"identify":"ORD-4"}}`))
	require.NoError(t, err)
	assert.Equal(t, "ORD-4", id)
}

func TestParseOrderIdentify_PrecedenceTopLevelWins(t *testing.T) {
	body := []byte(`{"identify":"top","data":{"identify":"nested","order":{"identify":"deep"}},"order":{"identify":"side"}}`)
	id, err := ParseOrderIdentify(body)
	require.NoError(t, err)
	assert.Equal(t, "top", id)
}

func TestParseOrderIdentify_PrecedenceDataBeforeOrder(t *testing.T) {
	body := []byte(`{"data":{"order":{"identify":"deep"}},"order":{"identify":"side"}}`)
	id, err := ParseOrderIdentify(body)
	require.NoError(t, err)
	assert.Equal(t, "deep", id)
}

func TestParseOrderIdentify_NumericIdentify(t *testing.T) {
	id, err := ParseOrderIdentify([]byte(`{"identify":12345}`))
	require.NoError(t, err)
	assert.Equal(t, "12345", id)
}

func TestParseOrderIdentify_EmptyStringFallsThrough(t *testing.T) {
	id, err := ParseOrderIdentify([]byte(`{"identify":"","data":{"identify":"ORD-9"}}`))
	require.NoError(t, err)
	assert.Equal(t, "ORD-9", id)
}

func TestParseOrderIdentify_NoIdentify(t *testing.T) {
	_, err := ParseOrderIdentify([]byte(`{"status":"created"}`))
	require.ErrorIs(t, err, ErrNoIdentify)
}

func TestParseOrderIdentify_InvalidJSON(t *testing.T) {
	_, err := ParseOrderIdentify([]byte(`not json`))
	require.Error(t, err)
}
