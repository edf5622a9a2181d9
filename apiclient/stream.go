package apiclient

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/Alia5/modtap/apitypes"
	"github.com/Alia5/modtap/device/keyboard"
)

// ErrStreamClosed is returned by writes after Close.
var ErrStreamClosed = errors.New("stream closed")

// DeviceStream is the long-lived connection that carries device input.
type DeviceStream struct {
	conn  net.Conn
	BusID uint32
	DevID string

	mu     sync.Mutex
	closed bool
}

// OpenStream connects to an existing device's stream channel.
func (c *Client) OpenStream(ctx context.Context, busID uint32, devID string) (*DeviceStream, error) {
	if c.transport.mock != nil {
		return nil, fmt.Errorf("stream connections not supported with mock transport")
	}
	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write([]byte(fmt.Sprintf("bus/%d/%s\x00", busID, devID))); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	return &DeviceStream{conn: conn, BusID: busID, DevID: devID}, nil
}

// AttachKeyboard makes sure busID exists, adds a keyboard to it and opens its stream.
// If the stream cannot be opened the keyboard is removed again.
func (c *Client) AttachKeyboard(ctx context.Context, busID uint32) (*DeviceStream, *apitypes.Device, error) {
	if err := c.EnsureBus(ctx, busID); err != nil {
		return nil, nil, err
	}
	dev, err := c.DeviceAddCtx(ctx, busID, "keyboard")
	if err != nil {
		return nil, nil, fmt.Errorf("add keyboard: %w", err)
	}
	stream, err := c.OpenStream(ctx, busID, dev.DevId)
	if err != nil {
		if _, rmErr := c.DeviceRemoveCtx(context.WithoutCancel(ctx), busID, dev.DevId); rmErr != nil {
			return nil, nil, fmt.Errorf("open stream: %w (remove device %s: %v)", err, dev.DevId, rmErr)
		}
		return nil, nil, fmt.Errorf("open stream: %w", err)
	}
	return stream, dev, nil
}

// WriteBinary marshals v and sends it to the device.
func (s *DeviceStream) WriteBinary(v encoding.BinaryMarshaler) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	_, err = s.conn.Write(data)
	return err
}

// WriteReport implements keyboard.ReportSink.
func (s *DeviceStream) WriteReport(st keyboard.InputState) error {
	return s.WriteBinary(st)
}

// Close closes the stream connection.
func (s *DeviceStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
