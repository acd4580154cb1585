package ipc

import (
	"bufio"
	"fmt"
	"net"
)

// Client is a thin connection wrapper for momoictl: one request, one
// response per line, the connection kept open across calls
// (spec.md §6: "connection may be kept open").
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

// Dial connects to the daemon's control socket at path.
func Dial(path string) (*Client, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("ipc: dial %s: %w", path, err)
	}
	return &Client{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Send writes cmd as a single JSON line and reads back one response line.
func (c *Client) Send(cmd Command) (Response, error) {
	cmd = cmd.WithRequestID()
	line, err := MarshalCommand(cmd)
	if err != nil {
		return Response{}, fmt.Errorf("ipc: encode command: %w", err)
	}
	line = append(line, '\n')
	if _, err := c.conn.Write(line); err != nil {
		return Response{}, fmt.Errorf("ipc: write command: %w", err)
	}

	respLine, err := c.reader.ReadBytes('\n')
	if err != nil {
		return Response{}, fmt.Errorf("ipc: read response: %w", err)
	}
	resp, err := UnmarshalResponse(respLine)
	if err != nil {
		return Response{}, fmt.Errorf("ipc: decode response: %w", err)
	}
	return resp, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
