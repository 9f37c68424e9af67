package numeric

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"integer", "5", 5},
		{"decimal", "2.5", 2.5},
		{"comma separator", "2,5", 2.5},
		{"padded", "  3 ", 3},
		{"empty", "", 0},
		{"garbage", "abc", 0},
		{"partial number", "12x", 0},
		{"negative", "-1.5", -1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuantity(tt.raw))
		})
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		name string
		n    float64
		want string
	}{
		{"whole number", 2.000, "2"},
		{"one decimal", 2.500, "2.5"},
		{"three decimals", 1.125, "1.125"},
		{"rounds to three decimals", 1.00049, "1"},
		{"rounds up", 0.9996, "1"},
		{"zero", 0, "0"},
		{"negative zero rounds clean", -0.0001, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatQuantity(tt.n))
		})
	}
}

func TestFormatQuantityIdempotent(t *testing.T) {
	for _, n := range []float64{0, 0.5, 1, 2.125, 17.9999, 1234.5} {
		once := FormatQuantity(n)
		again := FormatQuantity(ParseQuantity(once))
		assert.Equal(t, once, again, "formatting %v twice should be stable", n)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1.5 Br", FormatPrice(1.5))
	assert.Equal(t, "3 Br", FormatPrice(3))
}

func TestFlexUnmarshal(t *testing.T) {
	var payload struct {
		Quantity Flex `json:"quantity"`
	}

	tests := []struct {
		name string
		json string
		want float64
	}{
		{"number", `{"quantity": 2.5}`, 2.5},
		{"string number", `{"quantity": "3"}`, 3},
		{"string comma decimal", `{"quantity": "1,5"}`, 1.5},
		{"null", `{"quantity": null}`, 0},
		{"garbage string", `{"quantity": "много"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, json.Unmarshal([]byte(tt.json), &payload))
			assert.Equal(t, tt.want, payload.Quantity.Float64())
		})
	}
}
