package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "123.45", want: "123.45"},
		{name: "thousands separator", input: "1,930.50", want: "1930.5"},
		{name: "trailing minus", input: "200.00-", want: "-200"},
		{name: "leading minus", input: "-50.25", want: "-50.25"},
		{name: "bare leading dot", input: ".65", want: "0.65"},
		{name: "whitespace", input: "  14.70 ", want: "14.7"},
		{name: "empty", input: "", wantErr: true},
		{name: "lone dot", input: ".", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestRound2(t *testing.T) {
	d := decimal.RequireFromString("10.005")
	assert.Equal(t, "10.01", Round2(d).String())

	neg := decimal.RequireFromString("-10.005")
	assert.Equal(t, "-10.01", Round2(neg).String())
}

func TestEqualWithinCent(t *testing.T) {
	a := decimal.RequireFromString("100.00")
	b := decimal.RequireFromString("100.009")
	c := decimal.RequireFromString("100.02")

	assert.True(t, EqualWithinCent(a, b))
	assert.False(t, EqualWithinCent(a, c))
}

func TestDisplay(t *testing.T) {
	d := decimal.RequireFromString("1930.5")
	assert.Equal(t, "$1,930.50", Display(d))
}
