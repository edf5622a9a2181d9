package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyCode(t *testing.T) {
	tests := []struct {
		in      string
		want    KeyCode
		wantErr bool
	}{
		{in: "KC_A", want: KeyA},
		{in: "a", want: KeyA},
		{in: "LCTRL", want: KeyLeftCtrl},
		{in: "left_shift", want: KeyLeftShift},
		{in: "LSHFT", want: KeyLeftShift},
		{in: "RCMD", want: KeyRightGUI},
		{in: "N1", want: Key1},
		{in: "0", want: Key0},
		{in: "KC_SPACE", want: KeySpace},
		{in: "0x04", want: KeyA},
		{in: "0x29", want: KeyEscape},
		{in: "4", want: Key4},
		{in: "10", wantErr: true},
		{in: "41", wantErr: true},
		{in: "0x", wantErr: true},
		{in: "", wantErr: true},
		{in: "NOPE", wantErr: true},
		{in: "0x1FF", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKeyCode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyCodeNamesRoundTrip(t *testing.T) {
	for code, name := range KeyName {
		got, err := ParseKeyCode(name)
		require.NoError(t, err, name)
		assert.Equal(t, code, got, name)
	}
}

func TestKeyCodeString(t *testing.T) {
	assert.Equal(t, "LSHIFT", KeyLeftShift.String())
	assert.Equal(t, "0xA5", KeyCode(0xA5).String())
	back, err := ParseKeyCode(KeyCode(0xA5).String())
	require.NoError(t, err)
	assert.Equal(t, KeyCode(0xA5), back)
	assert.True(t, KeyRightGUI.IsModifier())
	assert.False(t, KeyA.IsModifier())
	assert.Equal(t, uint8(ModRightAlt), KeyRightAlt.ModifierBit())
	assert.Equal(t, uint8(0), KeyA.ModifierBit())
}
