package modtap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlavor(t *testing.T) {
	tests := []struct {
		in      string
		want    Flavor
		wantErr bool
	}{
		{in: "hold-preferred", want: HoldPreferred},
		{in: "balanced", want: Balanced},
		{in: "tap-preferred", want: TapPreferred},
		{in: "TAP_PREFERRED", want: TapPreferred},
		{in: " Balanced ", want: Balanced},
		{in: "tap-unless-interrupted", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFlavor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlavorText(t *testing.T) {
	b, err := TapPreferred.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "tap-preferred", string(b))

	var f Flavor
	require.NoError(t, f.UnmarshalText([]byte("balanced")))
	assert.Equal(t, Balanced, f)

	_, err = Flavor(7).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Flavor(7)", Flavor(7).String())
}

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, Config{TappingTermMs: 200, Flavor: HoldPreferred}, DefaultConfig())
}
