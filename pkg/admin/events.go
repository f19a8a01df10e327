/*
Package admin is the boundary to the platform's administrative services.

It defines the event feed wire format, a unix socket client that decodes the
msgpack event stream in delivery order, a feature store for per-qube
configuration values, and a dispatcher that fans events out to registered
handlers.

The feed gives no replay or reconnection guarantees; when the stream ends the
client simply closes its channel and whoever supervises the process decides
what happens next.
*/
package admin

// Event kinds delivered by the feed. Feature and property events carry the
// affected key in Data under "feature" or "property"; entry events carry a
// pre-parsed Entry payload, since desktop file parsing happens upstream.
const (
	DomainAdd      = "domain-add"
	DomainDelete   = "domain-delete"
	DomainStart    = "domain-start"
	DomainShutdown = "domain-shutdown"
	FeatureSet     = "domain-feature-set"
	FeatureDelete  = "domain-feature-delete"
	PropertySet    = "property-set"
	PropertyDelete = "property-delete"
	EntryAdd       = "entry-add"
	EntryRemove    = "entry-remove"
	EntryUpdate    = "entry-update"
)

// Event is one feed notification about a qube, keyed by its opaque ID.
type Event struct {
	Kind  string            `msgpack:"k"`
	ID    string            `msgpack:"id"`
	Data  map[string]string `msgpack:"d,omitempty"`
	Entry *EntryPayload     `msgpack:"e,omitempty"`
}

// EntryPayload is an application entry as shipped on the feed.
type EntryPayload struct {
	ID          string `msgpack:"id"`
	Name        string `msgpack:"n"`
	GenericName string `msgpack:"gn,omitempty"`
	Comment     string `msgpack:"c,omitempty"`
	Exec        string `msgpack:"x,omitempty"`
	Icon        string `msgpack:"i,omitempty"`
}

// Detail returns the secondary routing key of feature and property events,
// or "" when the event has none.
func (ev Event) Detail() string {
	switch ev.Kind {
	case FeatureSet, FeatureDelete:
		return ev.Data["feature"]
	case PropertySet, PropertyDelete:
		return ev.Data["property"]
	}
	return ""
}

// Value returns the payload value of set-type events.
func (ev Event) Value() string {
	return ev.Data["value"]
}
