package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"tk905-svr/internal/codec"
	"tk905-svr/internal/observability"
)

// FrameHandler consumes one complete frame at a time.
type FrameHandler interface {
	HandleFrame(frame []byte)
}

// TCPServer accepts tracker connections and runs one handler goroutine per
// connection. Each connection keeps its own residual buffer; a connection
// whose buffer outgrows maxBuffer (a sender that never closes a bracket)
// is dropped.
type TCPServer struct {
	handler   FrameHandler
	maxBuffer int
	logger    *slog.Logger
}

func New(handler FrameHandler, maxBuffer int, logger *slog.Logger) *TCPServer {
	return &TCPServer{
		handler:   handler,
		maxBuffer: maxBuffer,
		logger:    logger.With("component", "tcp"),
	}
}

func (srv *TCPServer) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("error starting TCP server: %w", err)
	}
	defer listener.Close()

	srv.logger.Info("TCP server listening", "addr", addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			srv.logger.Error("accept error", "err", err)
			continue
		}
		observability.TCPConnections.Inc()
		go srv.HandleConnection(conn)
	}
}

func (srv *TCPServer) HandleConnection(conn net.Conn) {
	defer conn.Close()

	log := srv.logger.With("conn", uuid.NewString(), "remote", conn.RemoteAddr().String())
	log.Info("device connected")

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetLinger(0)
		_ = tcpConn.SetNoDelay(false)
		_ = tcpConn.SetKeepAlive(true)
		_ = tcpConn.SetKeepAlivePeriod(60 * time.Second)
	}

	var pending []byte
	chunk := make([]byte, 2048)
	for {
		n, err := conn.Read(chunk)
		if err != nil {
			if opErr, ok := err.(*net.OpError); ok && opErr.Timeout() {
				continue
			}
			if err == io.EOF {
				log.Info("device disconnected")
				return
			}
			log.Error("read error", "err", err)
			return
		}
		if n == 0 {
			continue
		}

		pending = append(pending, chunk[:n]...)

		var frames [][]byte
		frames, pending = codec.ExtractFrames(pending)
		for _, frame := range frames {
			srv.handler.HandleFrame(frame)
		}

		if len(pending) > srv.maxBuffer {
			observability.BufferOverflows.Inc()
			log.Warn("residual buffer over cap, dropping connection", "bytes", len(pending))
			return
		}
	}
}
