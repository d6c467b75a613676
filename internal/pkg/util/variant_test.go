package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeVariantInput(t *testing.T) {
	tests := []struct {
		name      string
		color     string
		sizeLabel string
		stock     int64
		want      NormalizedVariant
		wantErr   error
	}{
		{
			name:      "trim upper collapse",
			color:     "  deep   blue ",
			sizeLabel: " m ",
			stock:     5,
			want:      NormalizedVariant{Color: "DEEP BLUE", SizeLabel: "M", Stock: 5},
		},
		{
			name:      "empty color defaults to FREE",
			color:     "   ",
			sizeLabel: "L",
			stock:     1,
			want:      NormalizedVariant{Color: "FREE", SizeLabel: "L", Stock: 1},
		},
		{
			name:      "negative stock clamped to zero",
			color:     "RED",
			sizeLabel: "XL",
			stock:     -3,
			want:      NormalizedVariant{Color: "RED", SizeLabel: "XL", Stock: 0},
		},
		{
			name:      "empty size label rejected",
			color:     "RED",
			sizeLabel: "  ",
			stock:     1,
			wantErr:   ErrEmptySizeLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeVariantInput(tt.color, tt.sizeLabel, tt.stock)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestVariantComboKey(t *testing.T) {
	require.Equal(t, "RED|M", VariantComboKey("red", "m"))
	require.Equal(t, VariantComboKey("Red", "M"), VariantComboKey("RED", "m"))
}
