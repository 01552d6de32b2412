package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeKeepsKeyAndJSON(t *testing.T) {
	msgs, err := Encode(Record{Key: "MTL-001", Value: map[string]any{"type": "product.created"}})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "MTL-001", string(msgs[0].Key))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msgs[0].Value, &decoded))
	require.Equal(t, "product.created", decoded["type"])
}

func TestEncodeRejectsUnsupportedValues(t *testing.T) {
	_, err := Encode(Record{Key: "bad", Value: make(chan int)})
	require.Error(t, err)
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(Config{Topic: "catalog.products"}, nil)
	require.Error(t, err)

	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}, Topic: "catalog.products", Async: true}, nil)
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
