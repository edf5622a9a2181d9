package keyboard

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyName maps HID usage codes to human-readable key names.
var KeyName = map[KeyCode]string{
	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L", KeyM: "M", KeyN: "N",
	KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R", KeyS: "S", KeyT: "T", KeyU: "U",
	KeyV: "V", KeyW: "W", KeyX: "X", KeyY: "Y", KeyZ: "Z",

	Key1: "N1", Key2: "N2", Key3: "N3", Key4: "N4", Key5: "N5",
	Key6: "N6", Key7: "N7", Key8: "N8", Key9: "N9", Key0: "N0",

	KeyEnter:      "ENTER",
	KeyEscape:     "ESC",
	KeyBackspace:  "BSPC",
	KeyTab:        "TAB",
	KeySpace:      "SPACE",
	KeyMinus:      "MINUS",
	KeyEqual:      "EQUAL",
	KeyLeftBrace:  "LBKT",
	KeyRightBrace: "RBKT",
	KeyBackslash:  "BSLH",
	KeyNonUSHash:  "NUHS",
	KeySemicolon:  "SEMI",
	KeyApostrophe: "SQT",
	KeyGrave:      "GRAVE",
	KeyComma:      "COMMA",
	KeyPeriod:     "DOT",
	KeySlash:      "FSLH",
	KeyCapsLock:   "CAPS",

	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5", KeyF6: "F6",
	KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",
	KeyF13: "F13", KeyF14: "F14", KeyF15: "F15", KeyF16: "F16", KeyF17: "F17", KeyF18: "F18",
	KeyF19: "F19", KeyF20: "F20", KeyF21: "F21", KeyF22: "F22", KeyF23: "F23", KeyF24: "F24",

	KeyPrintScreen: "PSCRN",
	KeyScrollLock:  "SLCK",
	KeyPause:       "PAUSE_BREAK",
	KeyInsert:      "INS",
	KeyHome:        "HOME",
	KeyPageUp:      "PG_UP",
	KeyDelete:      "DEL",
	KeyEnd:         "END",
	KeyPageDown:    "PG_DN",

	KeyRight: "RIGHT",
	KeyLeft:  "LEFT",
	KeyDown:  "DOWN",
	KeyUp:    "UP",

	KeyNumLock:    "KP_NUM",
	KeyKpSlash:    "KP_SLASH",
	KeyKpAsterisk: "KP_MULTIPLY",
	KeyKpMinus:    "KP_MINUS",
	KeyKpPlus:     "KP_PLUS",
	KeyKpEnter:    "KP_ENTER",
	KeyKp1:        "KP_N1",
	KeyKp2:        "KP_N2",
	KeyKp3:        "KP_N3",
	KeyKp4:        "KP_N4",
	KeyKp5:        "KP_N5",
	KeyKp6:        "KP_N6",
	KeyKp7:        "KP_N7",
	KeyKp8:        "KP_N8",
	KeyKp9:        "KP_N9",
	KeyKp0:        "KP_N0",
	KeyKpDot:      "KP_DOT",
	KeyKpEqual:    "KP_EQUAL",

	KeyNonUSBackslash: "NUBS",
	KeyApplication:    "K_APP",
	KeyPower:          "K_POWER",

	KeyExecute:    "K_EXEC",
	KeyHelp:       "K_HELP",
	KeyMenu:       "K_MENU",
	KeySelect:     "K_SELECT",
	KeyStop:       "K_STOP",
	KeyAgain:      "K_REDO",
	KeyUndo:       "K_UNDO",
	KeyCut:        "K_CUT",
	KeyCopy:       "K_COPY",
	KeyPaste:      "K_PASTE",
	KeyFind:       "K_FIND",
	KeyMute:       "K_MUTE",
	KeyVolumeUp:   "K_VOL_UP",
	KeyVolumeDown: "K_VOL_DN",

	KeyLeftCtrl:   "LCTRL",
	KeyLeftShift:  "LSHIFT",
	KeyLeftAlt:    "LALT",
	KeyLeftGUI:    "LGUI",
	KeyRightCtrl:  "RCTRL",
	KeyRightShift: "RSHIFT",
	KeyRightAlt:   "RALT",
	KeyRightGUI:   "RGUI",

	KeyMediaPlayPause: "K_PLAY_PAUSE",
	KeyMediaStop:      "K_STOP2",
	KeyMediaNext:      "K_NEXT",
	KeyMediaPrevious:  "K_PREV",
}

// keyAliases are accepted spellings in addition to the KeyName entries.
var keyAliases = map[string]KeyCode{
	"RET": KeyEnter, "RETURN": KeyEnter, "ESCAPE": KeyEscape, "BACKSPACE": KeyBackspace,
	"SPC": KeySpace, "LEFT_BRACKET": KeyLeftBrace, "RIGHT_BRACKET": KeyRightBrace,
	"BACKSLASH": KeyBackslash, "SEMICOLON": KeySemicolon, "APOS": KeyApostrophe,
	"APOSTROPHE": KeyApostrophe, "PERIOD": KeyPeriod, "SLASH": KeySlash, "CAPSLOCK": KeyCapsLock,
	"DELETE": KeyDelete, "INSERT": KeyInsert, "PAGE_UP": KeyPageUp, "PAGE_DOWN": KeyPageDown,

	"LCTL": KeyLeftCtrl, "LEFT_CONTROL": KeyLeftCtrl,
	"LSHFT": KeyLeftShift, "LEFT_SHIFT": KeyLeftShift,
	"LEFT_ALT": KeyLeftAlt, "LOPT": KeyLeftAlt,
	"LEFT_GUI": KeyLeftGUI, "LCMD": KeyLeftGUI, "LWIN": KeyLeftGUI, "LMETA": KeyLeftGUI,
	"RCTL": KeyRightCtrl, "RIGHT_CONTROL": KeyRightCtrl,
	"RSHFT": KeyRightShift, "RIGHT_SHIFT": KeyRightShift,
	"RIGHT_ALT": KeyRightAlt, "ROPT": KeyRightAlt,
	"RIGHT_GUI": KeyRightGUI, "RCMD": KeyRightGUI, "RWIN": KeyRightGUI, "RMETA": KeyRightGUI,
}

var keyByName = func() map[string]KeyCode {
	m := make(map[string]KeyCode, len(KeyName)+len(keyAliases)+10)
	for code, name := range KeyName {
		m[name] = code
	}
	for name, code := range keyAliases {
		m[name] = code
	}
	for d := 0; d <= 9; d++ {
		m[strconv.Itoa(d)] = m["N"+strconv.Itoa(d)]
	}
	return m
}()

// String returns the canonical key name, or the usage in hex when unnamed.
func (k KeyCode) String() string {
	if name, ok := KeyName[k]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", uint8(k))
}

// ParseKeyCode resolves a key name to its HID usage.
// Names are case-insensitive and may carry a "KC_" prefix (KC_A, LCTRL,
// left_shift). Raw usages must be written in hex ("0x04"); bare digits
// are number-row key names ("4" is the 4 key, usage 0x21).
func ParseKeyCode(s string) (KeyCode, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return 0, fmt.Errorf("empty key name")
	}
	name = strings.TrimPrefix(name, "KC_")
	if code, ok := keyByName[name]; ok {
		return code, nil
	}
	if hex, ok := strings.CutPrefix(name, "0X"); ok {
		if n, err := strconv.ParseUint(hex, 16, 8); err == nil {
			return KeyCode(n), nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k KeyCode) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseKeyCode.
func (k *KeyCode) UnmarshalText(text []byte) error {
	code, err := ParseKeyCode(string(text))
	if err != nil {
		return err
	}
	*k = code
	return nil
}
