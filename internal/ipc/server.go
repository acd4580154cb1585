package ipc

import (
	"bufio"
	"errors"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/chikof/momoi/internal/logging"
)

// Handler processes one decoded Command and returns the Response to
// write back. Implementations run on the IPC goroutine, never on the
// reconciler thread (spec.md §5's "commands issued on one connection
// take effect in issue order").
type Handler func(Command) Response

// Server listens on a Unix domain socket and dispatches newline-
// delimited JSON commands to a Handler, one response per line.
type Server struct {
	path     string
	listener *net.UnixListener
	handler  Handler
	exit     atomic.Bool
	log      func() interface{}
}

// Listen binds the control socket at path (removing a stale socket file
// first), matching spec.md §6's "a local stream socket at
// $XDG_RUNTIME_DIR/momoi.sock".
func Listen(path string, handler Handler) (*Server, error) {
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, err
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return nil, err
	}
	return &Server{path: path, listener: ln, handler: handler}, nil
}

// Serve runs the accept loop, polling with a 100ms deadline so it
// observes RequestExit between accepts (spec.md §5's cancellation
// model), until RequestExit is called.
func (s *Server) Serve() {
	logger := logging.For("ipc")
	for !s.exit.Load() {
		_ = s.listener.SetDeadline(time.Now().Add(100 * time.Millisecond))
		conn, err := s.listener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if s.exit.Load() {
				return
			}
			logger.Warn().Err(err).Msg("ipc accept failed")
			continue
		}
		go s.handleConn(conn)
	}
}

// RequestExit signals the accept loop to stop after its next 100ms
// timeout and closes the listener (also removing the socket file).
func (s *Server) RequestExit() {
	s.exit.Store(true)
	_ = s.listener.Close()
	_ = os.Remove(s.path)
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	logger := logging.For("ipc")

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			cmd, decodeErr := UnmarshalCommand(line)
			var resp Response
			if decodeErr != nil {
				resp = ErrorResponse("", NewError(ErrIPC, "malformed command: %v", decodeErr))
			} else {
				resp = s.handler(cmd)
				if resp.RequestID == "" {
					resp.RequestID = cmd.RequestID
				}
			}
			out, marshalErr := MarshalResponse(resp)
			if marshalErr != nil {
				logger.Error().Err(marshalErr).Msg("failed to marshal response")
				return
			}
			out = append(out, '\n')
			if _, writeErr := writer.Write(out); writeErr != nil {
				return
			}
			if flushErr := writer.Flush(); flushErr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}
