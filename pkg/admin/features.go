package admin

import (
	"net"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// FeatureStore looks up string-valued administrative properties attached to
// a qube. Values need local parsing; internal/utils has the helpers that
// apply defaults on malformed input.
type FeatureStore interface {
	Feature(id, key string) (string, bool)
}

// featureRequest / featureResponse form the store's request-reply wire
// protocol, one exchange per lookup.
type featureRequest struct {
	ID  string `msgpack:"id"`
	Key string `msgpack:"f"`
}

type featureResponse struct {
	Value string `msgpack:"v"`
	Found bool   `msgpack:"ok"`
}

// StoreClient is a socket-backed FeatureStore. All calls happen on the menu
// loop goroutine, so the shared connection needs no locking.
type StoreClient struct {
	conn net.Conn
	enc  *msgpack.Encoder
	dec  *msgpack.Decoder
}

// DialStore connects to the feature store socket.
func DialStore(socketPath string) (*StoreClient, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, err
	}
	return &StoreClient{
		conn: conn,
		enc:  msgpack.NewEncoder(conn),
		dec:  msgpack.NewDecoder(conn),
	}, nil
}

// Feature fetches one feature value. Transport errors degrade to "not set":
// the menu always has a default to fall back on, and a flaky store must not
// take the menu down with it.
func (s *StoreClient) Feature(id, key string) (string, bool) {
	if err := s.enc.Encode(featureRequest{ID: id, Key: key}); err != nil {
		log.Warnf("Feature store request %s/%s failed: %v", id, key, err)
		return "", false
	}
	var resp featureResponse
	if err := s.dec.Decode(&resp); err != nil {
		log.Warnf("Feature store reply %s/%s failed: %v", id, key, err)
		return "", false
	}
	return resp.Value, resp.Found
}

// Close tears down the store connection.
func (s *StoreClient) Close() error {
	return s.conn.Close()
}

// MemStore is an in-memory FeatureStore for tests and CLI mode.
type MemStore struct {
	features map[string]map[string]string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{features: make(map[string]map[string]string)}
}

// Set stores a feature value for a qube.
func (m *MemStore) Set(id, key, value string) {
	if m.features[id] == nil {
		m.features[id] = make(map[string]string)
	}
	m.features[id][key] = value
}

// Delete removes a feature value.
func (m *MemStore) Delete(id, key string) {
	delete(m.features[id], key)
}

// Feature implements FeatureStore.
func (m *MemStore) Feature(id, key string) (string, bool) {
	v, ok := m.features[id][key]
	return v, ok
}
