/*
Package menu holds the in-memory menu state: qubes, their application
entries, and the settings derived from feature flags.

State mutates only through Manager.Apply, which consumes administrative
events in delivery order with last-write-wins semantics. All access happens
on the single menu loop goroutine (see Loop), so there is no locking
anywhere in this package.
*/
package menu

// Qube is one isolated VM as the menu sees it: a name, a running flag and
// its feature flags. ID is the opaque key used by the event feed and the
// feature store.
type Qube struct {
	ID       string
	Name     string
	Running  bool
	Features map[string]string
}

// Entry is a launchable application entry belonging to a qube. Desktop file
// parsing happens upstream; entries arrive pre-parsed on the event feed.
type Entry struct {
	ID          string
	QubeID      string
	Name        string
	GenericName string
	Comment     string
	Exec        string
	Icon        string
}

// RankedEntry is a search hit: the entry plus the owning qube's display
// state and the query rank used for ordering.
type RankedEntry struct {
	Entry    Entry
	QubeName string
	Running  bool
	Rank     float64
}

// Feature flag keys read from the local qube, and their defaults.
const (
	FeatureInitialPage = "menu-initial-page"
	FeatureSortRunning = "menu-sort-running"

	DefaultInitialPage = 1
)

// Settings is the menu configuration derived from the local qube's feature
// flags. Malformed values never surface; they are replaced by defaults at
// parse time.
type Settings struct {
	InitialPage int
	SortRunning bool
}
