/*
Package server implements msgpack IPC for the menu's presentation layer.

The protocol is request-response over stdin/stdout with binary msgpack
encoding. Each message carries an ID the client picks; responses echo it so
the client can match replies. Search requests are processed synchronously
with microsecond timing included in responses.

A search exchange:

	{"id": "req_001", "q": "fire", "l": 24}

	{"id": "req_001", "s": [{"e": "work/firefox", "n": "<b>Fire</b>fox", "q": "work", "run": true, "r": 1}], "c": 1, "t": 92}

Menu actions query or mutate presentation state:

	{"id": "m_001", "action": "get_state"}
	{"id": "m_002", "action": "set_page", "page": 2}
	{"id": "m_003", "action": "reset"}
	{"id": "m_004", "action": "reload_settings"}

Every exchange runs as one action on the menu loop, so responses always
reflect a state no event delivery can be interleaved with.
*/
package server

// SearchRequest - ranked entry lookup
type SearchRequest struct {
	ID    string `msgpack:"id"`
	Query string `msgpack:"q"`
	Limit int    `msgpack:"l,omitempty"`
}

// SearchResult - one ranked entry with display markup already applied
type SearchResult struct {
	EntryID  string  `msgpack:"e"`
	Name     string  `msgpack:"n"`
	Generic  string  `msgpack:"g,omitempty"`
	QubeName string  `msgpack:"q"`
	Running  bool    `msgpack:"run"`
	Icon     string  `msgpack:"i,omitempty"`
	Exec     string  `msgpack:"x,omitempty"`
	Rank     float64 `msgpack:"r"`
}

// SearchResponse - search reply with timing in microseconds
type SearchResponse struct {
	ID          string         `msgpack:"id"`
	Suggestions []SearchResult `msgpack:"s"`
	Count       int            `msgpack:"c"`
	TimeTaken   int64          `msgpack:"t"`
}

// MenuRequest - presentation state operation
type MenuRequest struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"` // "health", "get_state", "get_page", "set_page", "reset", "reload_settings"
	Page   *int   `msgpack:"page,omitempty"`
}

// QubeState - one qube in a state reply
type QubeState struct {
	ID      string `msgpack:"id"`
	Name    string `msgpack:"n"`
	Running bool   `msgpack:"run"`
	Entries int    `msgpack:"c"`
}

// MenuResponse - menu operation reply
type MenuResponse struct {
	ID          string      `msgpack:"id"`
	Status      string      `msgpack:"status"`
	Error       string      `msgpack:"error,omitempty"`
	Page        int         `msgpack:"page,omitempty"`
	SortRunning bool        `msgpack:"sort_running,omitempty"`
	KeepVisible bool        `msgpack:"keep_visible,omitempty"`
	Qubes       []QubeState `msgpack:"qubes,omitempty"`
}

// RequestError holds basic error information for malformed requests
type RequestError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
