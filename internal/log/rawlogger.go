package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Alia5/modtap/device/keyboard"
)

// RawLogger traces every HID report the keyboard produces.
type RawLogger interface {
	Log(report []byte)
	keyboard.ReportSink
}

// rawLogger implements RawLogger with thread-safe writes.
type rawLogger struct {
	w   io.Writer
	mu  sync.Mutex
	seq uint64
	now func() time.Time
}

// NewRaw creates a new RawLogger. If writer is nil, returns a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w, now: time.Now}
}

// Log emits a single-line report trace with sequence number and hex dump.
func (r *rawLogger) Log(report []byte) {
	if len(report) == 0 || r.w == nil {
		return
	}

	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range report {
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	line := fmt.Sprintf("%s #%d report: %d bytes, hex: %s\n",
		r.now().Format("2006/01/02 15:04:05.000"),
		r.seq,
		len(report),
		hexbuf.String())
	_, _ = r.w.Write([]byte(line))
}

// WriteReport logs the 34-byte report built from st.
func (r *rawLogger) WriteReport(st keyboard.InputState) error {
	r.Log(st.BuildReport())
	return nil
}
