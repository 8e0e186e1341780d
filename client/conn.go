package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/iov-one/cosign/errors"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/sync/errgroup"
)

type jsonRPCRequest struct {
	ID      uint64        `json:"id"`
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type jsonRPCResponse struct {
	ID      uint64          `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type subscriptionParams struct {
	Subscription string          `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

// subscriptionBuffer is the number of notifications a subscriber may fall
// behind before its subscription is closed.
const subscriptionBuffer = 16

type pendingCall struct {
	res chan jsonRPCResponse
	// sub is set for calls that open a subscription. It is registered by
	// the reader before the response is delivered, so that no
	// notification is lost.
	sub *Subscription
}

// Conn is a JSON-RPC connection over a websocket. A single reader
// goroutine dispatches responses and subscription notifications. When the
// connection is lost every pending call fails with ErrProvider and every
// subscription is closed.
type Conn struct {
	ws     *websocket.Conn
	logger log.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]*pendingCall
	subs    map[string]*Subscription
	err     error

	done  chan struct{}
	group *errgroup.Group
}

// ConnOption configures a Conn.
type ConnOption func(*Conn)

// WithConnLogger sets the logger of a connection.
func WithConnLogger(l log.Logger) ConnOption {
	return func(c *Conn) { c.logger = l }
}

// Dial opens a websocket JSON-RPC connection. http and https URLs are
// converted to ws and wss.
func Dial(ctx context.Context, endpoint string, opts ...ConnOption) (*Conn, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrFormat, "node url %q", endpoint)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, errors.Wrapf(errors.ErrFormat, "unsupported node url scheme %q", u.Scheme)
	}
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrProvider, "dial %s: %s", u, err)
	}

	c := &Conn{
		ws:      ws,
		logger:  log.NewNopLogger(),
		pending: make(map[uint64]*pendingCall),
		subs:    make(map[string]*Subscription),
		done:    make(chan struct{}),
		group:   new(errgroup.Group),
	}
	for _, o := range opts {
		o(c)
	}
	c.group.Go(c.readLoop)
	return c, nil
}

// Done is closed when the connection is lost or closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns the reason the connection was lost, or nil while it is
// alive.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close closes the connection and waits for the reader to stop.
func (c *Conn) Close() error {
	c.writeMu.Lock()
	_ = c.ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	err := c.ws.Close()
	_ = c.group.Wait()
	return err
}

// Call sends a request and decodes its result into result, unless result
// is nil.
func (c *Conn) Call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	return c.call(ctx, result, nil, method, params)
}

func (c *Conn) call(ctx context.Context, result interface{}, sub *Subscription, method string, params []interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	pc := &pendingCall{res: make(chan jsonRPCResponse, 1), sub: sub}

	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return err
	}
	c.nextID++
	id := c.nextID
	c.pending[id] = pc
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	req := jsonRPCRequest{ID: id, JSONRPC: "2.0", Method: method, Params: params}
	c.writeMu.Lock()
	err := c.ws.WriteJSON(req)
	c.writeMu.Unlock()
	if err != nil {
		return errors.Wrapf(errors.ErrProvider, "%s: %s", method, err)
	}

	select {
	case <-ctx.Done():
		return errors.Wrapf(errors.ErrTimeout, "%s: %s", method, ctx.Err())
	case <-c.done:
		return errors.Wrap(c.Err(), method)
	case res := <-pc.res:
		if res.Error != nil {
			return errors.Wrapf(errors.ErrProvider, "%s: %s", method, res.Error)
		}
		if result == nil {
			return nil
		}
		if err := json.Unmarshal(res.Result, result); err != nil {
			return errors.Wrapf(errors.ErrDecode, "%s result: %s", method, err)
		}
		return nil
	}
}

// Subscribe calls a subscription method. Notifications of the returned
// subscription are delivered until it is closed with Unsubscribe or the
// connection is lost.
func (c *Conn) Subscribe(ctx context.Context, method, unsubscribeMethod string, params ...interface{}) (*Subscription, error) {
	sub := &Subscription{
		conn:        c,
		unsubscribe: unsubscribeMethod,
		ch:          make(chan json.RawMessage, subscriptionBuffer),
	}
	if err := c.call(ctx, nil, sub, method, params); err != nil {
		return nil, err
	}
	return sub, nil
}

func (c *Conn) readLoop() error {
	err := c.read()

	c.mu.Lock()
	c.err = errors.Wrapf(errors.ErrProvider, "connection lost: %s", err)
	subs := c.subs
	c.subs = make(map[string]*Subscription)
	c.mu.Unlock()

	for _, s := range subs {
		s.close()
	}
	close(c.done)
	c.logger.Info("node connection closed", "err", err)
	return err
}

func (c *Conn) read() error {
	for {
		var res jsonRPCResponse
		if err := c.ws.ReadJSON(&res); err != nil {
			return err
		}
		if res.Method != "" {
			c.notify(res)
			continue
		}

		c.mu.Lock()
		pc, ok := c.pending[res.ID]
		if ok && pc.sub != nil && res.Error == nil {
			var id string
			if err := json.Unmarshal(res.Result, &id); err == nil {
				pc.sub.id = id
				c.subs[id] = pc.sub
			}
		}
		c.mu.Unlock()

		if !ok {
			c.logger.Debug("response without a pending call", "id", res.ID)
			continue
		}
		pc.res <- res
	}
}

func (c *Conn) notify(res jsonRPCResponse) {
	var p subscriptionParams
	if err := json.Unmarshal(res.Params, &p); err != nil {
		c.logger.Error("malformed notification", "method", res.Method, "err", err)
		return
	}
	c.mu.Lock()
	sub, ok := c.subs[p.Subscription]
	c.mu.Unlock()
	if !ok {
		c.logger.Debug("notification without a subscription", "method", res.Method, "subscription", p.Subscription)
		return
	}
	if sub.deliver(p.Result) {
		return
	}
	c.mu.Lock()
	delete(c.subs, p.Subscription)
	c.mu.Unlock()
	sub.close()
	c.logger.Error("subscriber too slow, subscription closed", "method", res.Method, "subscription", p.Subscription)
}

// Subscription delivers the notifications of one subscription.
type Subscription struct {
	conn        *Conn
	id          string
	unsubscribe string

	closeOnce sync.Once

	mu    sync.Mutex
	ended bool
	ch    chan json.RawMessage
}

// ID returns the subscription id assigned by the node.
func (s *Subscription) ID() string {
	return s.id
}

// Notifications returns the channel of notification results. It is closed
// when the subscription ends.
func (s *Subscription) Notifications() <-chan json.RawMessage {
	return s.ch
}

// Unsubscribe ends the subscription.
func (s *Subscription) Unsubscribe(ctx context.Context) error {
	s.conn.mu.Lock()
	_, active := s.conn.subs[s.id]
	delete(s.conn.subs, s.id)
	s.conn.mu.Unlock()

	s.close()
	if !active || s.unsubscribe == "" {
		return nil
	}
	return s.conn.Call(ctx, nil, s.unsubscribe, s.id)
}

// deliver queues a notification without blocking the reader. It returns
// false if the buffer is full.
func (s *Subscription) deliver(result json.RawMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return true
	}
	select {
	case s.ch <- result:
		return true
	default:
		return false
	}
}

// close ends the subscription. Buffered notifications can still be read.
func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.ended = true
		close(s.ch)
		s.mu.Unlock()
	})
}
