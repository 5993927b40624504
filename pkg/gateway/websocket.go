package gateway

import (
	"context"
	"encoding/binary"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/soulstats/collector/internal/logging"
	"github.com/soulstats/collector/internal/types"
	"github.com/soulstats/collector/pkg/codec"
)

// Frame type bytes on the wire. Notifies arrive unsolicited, requests carry
// a little-endian uint16 index that the matching response echoes back.
const (
	frameNotify   = 0x01
	frameRequest  = 0x02
	frameResponse = 0x03
)

// The server pushes the active codec version and schema definition once
// after the handshake; the connection is not ready until it arrives.
const nameNotifySchema = ".lq.NotifySchemaVersion"

const (
	defaultCallTimeout = 30 * time.Second
	writeWait          = 10 * time.Second
)

// Config carries what the connection needs to dial and authenticate.
type Config struct {
	URL         string
	AccessToken string
	Logger      *logging.Logger
}

type pendingCall struct {
	ch chan callResult
}

type callResult struct {
	data []byte
	err  error
}

// Connection is the websocket implementation of Client. A single read loop
// demultiplexes responses to pending calls by index; writes are serialized
// under the write mutex.
type Connection struct {
	cfg       Config
	deviceKey string
	logger    *logging.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[uint16]*pendingCall
	next    uint16
	ready   chan struct{}
	closed  bool

	schemaMu sync.RWMutex
	version  string
	schema   []byte

	writeMu sync.Mutex
}

var _ Client = (*Connection)(nil)

// Dial opens the connection and starts dialing in the background. The
// returned Connection is usable after WaitForReady succeeds.
func Dial(cfg Config) *Connection {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default
	}
	c := &Connection{
		cfg:       cfg,
		deviceKey: uuid.New().String(),
		logger:    cfg.Logger,
		pending:   make(map[uint16]*pendingCall),
		ready:     make(chan struct{}),
	}
	go c.dial()
	return c
}

func (c *Connection) dial() {
	header := http.Header{}
	header.Set("X-Device-Key", c.deviceKey)
	if c.cfg.AccessToken != "" {
		header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	}

	conn, _, err := websocket.DefaultDialer.Dial(c.cfg.URL, header)
	if err != nil {
		c.logger.Error("gateway dial failed: %v", err)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.mu.Unlock()

	c.logger.Info("gateway connected to %s", c.cfg.URL)
	go c.readLoop(conn)
}

func (c *Connection) readLoop(conn *websocket.Conn) {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			c.failPending(types.WrapError(types.ErrTransport, "gateway connection lost", err))
			return
		}
		if len(frame) < 1 {
			continue
		}
		switch frame[0] {
		case frameNotify:
			c.handleNotify(frame[1:])
		case frameResponse:
			c.handleResponse(frame[1:])
		default:
			c.logger.Warn("gateway: unexpected frame type 0x%02x", frame[0])
		}
	}
}

func (c *Connection) handleNotify(body []byte) {
	w, err := codec.UnmarshalWrapper(body)
	if err != nil {
		c.logger.Warn("gateway: undecodable notify: %v", err)
		return
	}
	if w.Name != nameNotifySchema {
		return
	}
	version, schema, err := codec.UnmarshalSchemaNotice(w.Data)
	if err != nil {
		c.logger.Warn("gateway: bad schema notice: %v", err)
		return
	}

	c.schemaMu.Lock()
	c.version = version
	c.schema = schema
	c.schemaMu.Unlock()

	c.mu.Lock()
	select {
	case <-c.ready:
	default:
		close(c.ready)
	}
	c.mu.Unlock()

	c.logger.Info("gateway session ready, codec version %s", version)
}

func (c *Connection) handleResponse(body []byte) {
	if len(body) < 2 {
		c.logger.Warn("gateway: truncated response frame")
		return
	}
	index := binary.LittleEndian.Uint16(body[:2])

	c.mu.Lock()
	call, ok := c.pending[index]
	if ok {
		delete(c.pending, index)
	}
	c.mu.Unlock()
	if !ok {
		c.logger.Warn("gateway: response for unknown call index %d", index)
		return
	}

	w, err := codec.UnmarshalWrapper(body[2:])
	if err != nil {
		call.ch <- callResult{err: types.WrapError(types.ErrDecode, "undecodable response wrapper", err)}
		return
	}
	call.ch <- callResult{data: w.Data}
}

func (c *Connection) failPending(err error) {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[uint16]*pendingCall)
	conn := c.conn
	c.conn = nil
	closed := c.closed
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	for _, call := range pending {
		call.ch <- callResult{err: err}
	}
	if !closed {
		c.logger.Warn("gateway: %v", err)
	}
}

// Call issues one request and waits for its response. The context bounds the
// wait; a dropped connection fails the call with a transport error.
func (c *Connection) Call(ctx context.Context, method string, req []byte) ([]byte, error) {
	body := codec.MarshalWrapper(&codec.Wrapper{Name: method, Data: req})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, types.NewIngestError(types.ErrTransport, "gateway is closed")
	}
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return nil, types.NewIngestError(types.ErrTransport, "gateway is not connected")
	}
	c.next++
	index := c.next
	call := &pendingCall{ch: make(chan callResult, 1)}
	c.pending[index] = call
	c.mu.Unlock()

	frame := make([]byte, 3, 3+len(body))
	frame[0] = frameRequest
	binary.LittleEndian.PutUint16(frame[1:3], index)
	frame = append(frame, body...)

	c.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := conn.WriteMessage(websocket.BinaryMessage, frame)
	c.writeMu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, index)
		c.mu.Unlock()
		return nil, types.WrapError(types.ErrTransport, fmt.Sprintf("write failed for %s", method), err)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultCallTimeout)
		defer cancel()
	}

	select {
	case res := <-call.ch:
		return res.data, res.err
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, index)
		c.mu.Unlock()
		return nil, types.WrapError(types.ErrTransport, fmt.Sprintf("call %s timed out", method), ctx.Err())
	}
}

// Reconnect drops the current socket and dials again. Pending calls fail
// with a transport error; callers should WaitForReady before retrying.
func (c *Connection) Reconnect() {
	c.failPending(types.NewIngestError(types.ErrTransport, "gateway reconnecting"))

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	select {
	case <-c.ready:
		c.ready = make(chan struct{})
	default:
	}
	c.mu.Unlock()

	c.logger.Info("gateway reconnecting to %s", c.cfg.URL)
	go c.dial()
}

// WaitForReady blocks until the session schema has arrived or ctx expires.
func (c *Connection) WaitForReady(ctx context.Context) error {
	c.mu.Lock()
	ready := c.ready
	c.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return types.WrapError(types.ErrTransport, "gateway never became ready", ctx.Err())
	}
}

// CodecVersion reports the schema version from the session notice.
func (c *Connection) CodecVersion() string {
	c.schemaMu.RLock()
	defer c.schemaMu.RUnlock()
	return c.version
}

// SchemaDefinition returns the raw schema bytes from the session notice.
func (c *Connection) SchemaDefinition() []byte {
	c.schemaMu.RLock()
	defer c.schemaMu.RUnlock()
	return c.schema
}

// Close shuts the connection down for good.
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}
