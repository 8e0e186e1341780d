package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

type nodeRequest struct {
	ID     uint64            `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeNode is an in-process JSON-RPC node serving a fixed chain state.
type fakeNode struct {
	t *testing.T

	mu         sync.Mutex
	properties string
	height     uint64
	nonce      uint64
	storage    map[string]string
	statuses   []string
	// dropAfter closes the connection after that many status
	// notifications, when positive.
	dropAfter int
	// flood is the number of notifications sent to a test_flood
	// subscription.
	flood   int
	methods []string
}

func newFakeNode(t *testing.T) *fakeNode {
	return &fakeNode{
		t:          t,
		properties: `{"ss58Format":42,"tokenDecimals":8,"tokenSymbol":"UNIT"}`,
		storage:    make(map[string]string),
	}
}

// start serves the node and returns its websocket URL.
func (n *fakeNode) start() string {
	srv := httptest.NewServer(n)
	n.t.Cleanup(srv.Close)
	return strings.Replace(srv.URL, "http", "ws", 1)
}

func (n *fakeNode) set(key []byte, value []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.storage[toHex(key)] = toHex(value)
}

func (n *fakeNode) called(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	var count int
	for _, m := range n.methods {
		if m == method {
			count++
		}
	}
	return count
}

var upgrader = websocket.Upgrader{}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		n.t.Errorf("cannot upgrade: %s", err)
		return
	}
	defer conn.Close()

	for {
		var req nodeRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		n.mu.Lock()
		n.methods = append(n.methods, req.Method)
		n.mu.Unlock()

		if !n.handle(conn, req) {
			return
		}
	}
}

// handle answers a single request. It returns false when the connection
// must be dropped.
func (n *fakeNode) handle(conn *websocket.Conn, req nodeRequest) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	result := func(v string) {
		msg := fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"result":%s}`, req.ID, v)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			n.t.Errorf("cannot write: %s", err)
		}
	}
	str := func(i int) string {
		var s string
		if i < len(req.Params) {
			_ = json.Unmarshal(req.Params[i], &s)
		}
		return s
	}

	switch req.Method {
	case "system_properties":
		result(n.properties)
	case "chain_getHeader":
		result(fmt.Sprintf(`{"number":"0x%x","parentHash":"0x00"}`, n.height))
	case "system_accountNextIndex":
		result(fmt.Sprint(n.nonce))
	case "state_getStorage":
		if v, ok := n.storage[str(0)]; ok {
			result(`"` + v + `"`)
		} else {
			result("null")
		}
	case "state_getKeysPaged":
		prefix, start := str(0), str(2)
		var count int
		_ = json.Unmarshal(req.Params[1], &count)
		var keys []string
		for k := range n.storage {
			if strings.HasPrefix(k, prefix) && k > start {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		if len(keys) > count {
			keys = keys[:count]
		}
		raw, _ := json.Marshal(keys)
		if keys == nil {
			raw = []byte("[]")
		}
		result(string(raw))
	case "state_queryStorageAt":
		var keys []string
		_ = json.Unmarshal(req.Params[0], &keys)
		changes := make([][2]*string, len(keys))
		for i, k := range keys {
			k := k
			changes[i][0] = &k
			if v, ok := n.storage[k]; ok {
				changes[i][1] = &v
			}
		}
		raw, _ := json.Marshal([]storageChangeSet{{Block: "0x00", Changes: changes}})
		result(string(raw))
	case "author_submitAndWatchExtrinsic":
		result(`"sub-1"`)
		for i, status := range n.statuses {
			if n.dropAfter > 0 && i == n.dropAfter {
				return false
			}
			msg := fmt.Sprintf(`{"jsonrpc":"2.0","method":"author_extrinsicUpdate","params":{"subscription":"sub-1","result":%s}}`, status)
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return false
			}
		}
		if n.dropAfter > 0 {
			return false
		}
	case "test_flood":
		result(`"flood-1"`)
		for i := 0; i < n.flood; i++ {
			msg := fmt.Sprintf(`{"jsonrpc":"2.0","method":"test_flooded","params":{"subscription":"flood-1","result":%d}}`, i)
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return false
			}
		}
	case "author_unwatchExtrinsic":
		result("true")
	case "drop":
		return false
	case "hang":
	default:
		msg := fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"error":{"code":-32601,"message":"Method not found"}}`, req.ID)
		_ = conn.WriteMessage(websocket.TextMessage, []byte(msg))
	}
	return true
}
