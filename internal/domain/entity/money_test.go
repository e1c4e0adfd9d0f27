package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentsMarshalsTwoDecimals(t *testing.T) {
	b, err := json.Marshal(Cents(6500))
	require.NoError(t, err)
	assert.Equal(t, "65.00", string(b))

	b, err = json.Marshal(Cents(5))
	require.NoError(t, err)
	assert.Equal(t, "0.05", string(b))
}

func TestCentsUnmarshal(t *testing.T) {
	var c Cents
	require.NoError(t, json.Unmarshal([]byte("25.00"), &c))
	assert.Equal(t, Cents(2500), c)

	require.NoError(t, json.Unmarshal([]byte("19.99"), &c))
	assert.Equal(t, Cents(1999), c)
}

func TestCentsFromFloatRounds(t *testing.T) {
	assert.Equal(t, Cents(1999), CentsFromFloat(19.99))
	assert.Equal(t, Cents(2500), CentsFromFloat(25.0))
	assert.Equal(t, Cents(-150), CentsFromFloat(-1.5))
	assert.Equal(t, Cents(0), CentsFromFloat(0))
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled, OrderRefunded} {
		assert.True(t, ValidOrderStatus(s), s)
	}
	assert.False(t, ValidOrderStatus("teleported"))
	assert.False(t, ValidOrderStatus(""))
}
