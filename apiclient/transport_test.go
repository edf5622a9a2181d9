package apiclient_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/modtap/apiclient"
	"github.com/Alia5/modtap/device/keyboard"
)

// startTestServer accepts one connection, records the request up to the
// NUL terminator, writes response and then hands the connection to rest.
func startTestServer(t *testing.T, response string, rest func(r *bufio.Reader)) (string, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		r := bufio.NewReader(conn)
		line, _ := r.ReadString('\x00')
		got <- line
		if response != "" {
			_, _ = conn.Write([]byte(response))
		}
		if rest != nil {
			rest(r)
		}
	}()
	return ln.Addr().String(), got
}

func TestTransport_Framing(t *testing.T) {
	addr, got := startTestServer(t, "{\"busId\":3}\n", nil)
	c := apiclient.New(addr)

	resp, err := c.BusCreateCtx(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), resp.BusID)
	assert.Equal(t, "bus/create 3\x00", <-got)
}

func TestTransport_PathParamsAndJSONPayload(t *testing.T) {
	addr, got := startTestServer(t, `{"busId":9,"devId":"1","vid":"0x2e8a","pid":"0x0010","type":"keyboard"}`, nil)
	c := apiclient.New(addr)

	_, err := c.DeviceAddCtx(context.Background(), 9, "keyboard")
	require.NoError(t, err)
	assert.Equal(t, "bus/9/add {\"type\":\"keyboard\"}\x00", <-got)
}

func TestDeviceStream_WritesKeyboardReports(t *testing.T) {
	frames := make(chan []byte, 1)
	addr, got := startTestServer(t, "", func(r *bufio.Reader) {
		buf := make([]byte, 4)
		if _, err := io.ReadFull(r, buf); err == nil {
			frames <- buf
		}
	})
	c := apiclient.New(addr)

	stream, err := c.OpenStream(context.Background(), 1, "2")
	require.NoError(t, err)
	assert.Equal(t, "bus/1/2\x00", <-got)

	kb := keyboard.New(nil, stream)
	kb.Press(keyboard.KeyLeftShift)
	kb.Press(keyboard.KeyA)

	select {
	case f := <-frames:
		// first report: shift only; second: shift + one key
		assert.Equal(t, []byte{keyboard.ModLeftShift, 0, keyboard.ModLeftShift, 1}, f)
	case <-time.After(2 * time.Second):
		t.Fatal("no report received")
	}

	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close())
	assert.ErrorIs(t, stream.WriteReport(keyboard.InputState{}), apiclient.ErrStreamClosed)
}
