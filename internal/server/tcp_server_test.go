package server

import (
	"log/slog"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureHandler struct {
	mu     sync.Mutex
	frames []string
}

func (h *captureHandler) HandleFrame(frame []byte) {
	h.mu.Lock()
	h.frames = append(h.frames, string(frame))
	h.mu.Unlock()
}

func (h *captureHandler) got() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.frames...)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func runConn(t *testing.T, srv *TCPServer) (net.Conn, chan struct{}) {
	t.Helper()
	client, server := net.Pipe()
	done := make(chan struct{})
	go func() {
		srv.HandleConnection(server)
		close(done)
	}()
	return client, done
}

func TestHandleConnectionBatchedFrames(t *testing.T) {
	h := &captureHandler{}
	srv := New(h, 64*1024, discard())

	client, done := runConn(t, srv)
	_, err := client.Write([]byte("[SG*1*XX*LK][SG*2*XX*LK]"))
	require.NoError(t, err)
	client.Close()
	<-done

	assert.Equal(t, []string{"[SG*1*XX*LK]", "[SG*2*XX*LK]"}, h.got())
}

func TestHandleConnectionFragmentedFrame(t *testing.T) {
	h := &captureHandler{}
	srv := New(h, 64*1024, discard())

	client, done := runConn(t, srv)
	for _, part := range []string{"[SG*1*X", "X*GPS,010125,12000", "0,A,22.5,N,114.1,E,36.0,90]"} {
		_, err := client.Write([]byte(part))
		require.NoError(t, err)
	}
	client.Close()
	<-done

	require.Len(t, h.got(), 1)
	assert.Equal(t, "[SG*1*XX*GPS,010125,120000,A,22.5,N,114.1,E,36.0,90]", h.got()[0])
}

func TestHandleConnectionDropsPartialOnClose(t *testing.T) {
	h := &captureHandler{}
	srv := New(h, 64*1024, discard())

	client, done := runConn(t, srv)
	_, err := client.Write([]byte("[SG*1*XX*LK][SG*2*incomplete"))
	require.NoError(t, err)
	client.Close()
	<-done

	assert.Equal(t, []string{"[SG*1*XX*LK]"}, h.got(), "unterminated tail dies with the connection")
}

func TestHandleConnectionBufferCap(t *testing.T) {
	h := &captureHandler{}
	srv := New(h, 32, discard())

	client, done := runConn(t, srv)
	// an open bracket that never closes must not grow the buffer forever
	_, err := client.Write([]byte("[SG*0000000000000000000000000000000000000000"))
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("connection not dropped after buffer cap")
	}
	assert.Empty(t, h.got())
	client.Close()
}

func TestStartServesRealConnections(t *testing.T) {
	h := &captureHandler{}
	srv := New(h, 64*1024, discard())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	go func() { _ = srv.Start(addr) }()

	var conn net.Conn
	require.Eventually(t, func() bool {
		var derr error
		conn, derr = net.Dial("tcp", addr)
		return derr == nil
	}, 2*time.Second, 20*time.Millisecond)

	_, err = conn.Write([]byte("[SG*99*XX*LK]"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(h.got()) == 1 }, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, "[SG*99*XX*LK]", h.got()[0])
	conn.Close()
}
