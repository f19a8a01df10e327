package menu

import (
	"sort"

	"github.com/charmbracelet/log"

	"github.com/qubemenu/qubemenu/internal/utils"
	"github.com/qubemenu/qubemenu/pkg/admin"
	"github.com/qubemenu/qubemenu/pkg/search"
)

// Manager reconciles the event feed into the menu's qube and entry maps and
// keeps the search index in sync. Events naming an unknown qube are no-ops;
// the feed gives no ordering guarantees beyond delivery order, and none are
// needed.
type Manager struct {
	localID string
	store   admin.FeatureStore

	qubes   map[string]*Qube
	entries map[string]*Entry
	index   *search.Index

	defaults Settings
	settings Settings
	page     int

	refreshers []func()
}

// NewManager creates an empty manager with built-in setting defaults.
// localID names the qube whose feature flags configure the menu; store is
// consulted for them at startup and whenever a matching feature event
// arrives.
func NewManager(localID string, store admin.FeatureStore) *Manager {
	return NewManagerWithDefaults(localID, store, Settings{InitialPage: DefaultInitialPage})
}

// NewManagerWithDefaults is NewManager with caller-supplied fallback
// settings, typically from the config file. Feature flags on the local qube
// still override them; the defaults apply when a flag is absent or
// malformed.
func NewManagerWithDefaults(localID string, store admin.FeatureStore, defaults Settings) *Manager {
	m := &Manager{
		localID:  localID,
		store:    store,
		defaults: defaults,
		qubes:    make(map[string]*Qube),
		entries:  make(map[string]*Entry),
		index:    search.NewIndex(),
	}
	m.ReloadSettings()
	m.page = m.settings.InitialPage
	return m
}

// OnRefresh registers a presentation-layer callback fired after every state
// mutation, in registration order, on the loop goroutine.
func (m *Manager) OnRefresh(fn func()) {
	m.refreshers = append(m.refreshers, fn)
}

// Register wires the manager's reconciliation into a dispatcher, including
// the settings watchers for the menu feature flags.
func (m *Manager) Register(d *admin.Dispatcher) {
	for _, kind := range []string{
		admin.DomainAdd, admin.DomainDelete,
		admin.DomainStart, admin.DomainShutdown,
		admin.FeatureSet, admin.FeatureDelete,
		admin.PropertySet, admin.PropertyDelete,
		admin.EntryAdd, admin.EntryUpdate, admin.EntryRemove,
	} {
		d.AddHandler(kind, m.Apply)
	}
	for _, feature := range []string{FeatureInitialPage, FeatureSortRunning} {
		d.AddHandler(admin.FeatureSet+":"+feature, m.applySettingsEvent)
		d.AddHandler(admin.FeatureDelete+":"+feature, m.applySettingsEvent)
	}
}

// Apply reconciles one event into the state, last write wins.
func (m *Manager) Apply(ev admin.Event) {
	switch ev.Kind {
	case admin.DomainAdd:
		m.addQube(ev)
	case admin.DomainDelete:
		m.removeQube(ev.ID)
	case admin.DomainStart:
		m.setRunning(ev.ID, true)
	case admin.DomainShutdown:
		m.setRunning(ev.ID, false)
	case admin.FeatureSet:
		m.setFeature(ev.ID, ev.Detail(), ev.Value())
	case admin.FeatureDelete:
		m.deleteFeature(ev.ID, ev.Detail())
	case admin.PropertySet:
		m.setProperty(ev.ID, ev.Detail(), ev.Value())
	case admin.PropertyDelete:
		// deleting a property reverts it to a platform default the menu
		// cannot see; nothing to reconcile
	case admin.EntryAdd, admin.EntryUpdate:
		m.upsertEntry(ev)
	case admin.EntryRemove:
		m.removeEntry(ev.ID)
	default:
		log.Debug("Ignoring event", "kind", ev.Kind, "id", ev.ID)
		return
	}
	m.refresh()
}

func (m *Manager) addQube(ev admin.Event) {
	name := ev.Data["name"]
	if name == "" {
		name = ev.ID
	}
	m.qubes[ev.ID] = &Qube{
		ID:       ev.ID,
		Name:     name,
		Features: make(map[string]string),
	}
}

func (m *Manager) removeQube(id string) {
	if _, ok := m.qubes[id]; !ok {
		return
	}
	for entryID, e := range m.entries {
		if e.QubeID == id {
			m.index.Delete(entryID)
			delete(m.entries, entryID)
		}
	}
	delete(m.qubes, id)
}

func (m *Manager) setRunning(id string, running bool) {
	if q, ok := m.qubes[id]; ok {
		q.Running = running
	}
}

func (m *Manager) setFeature(id, key, value string) {
	if q, ok := m.qubes[id]; ok && key != "" {
		q.Features[key] = value
	}
}

func (m *Manager) deleteFeature(id, key string) {
	if q, ok := m.qubes[id]; ok {
		delete(q.Features, key)
	}
}

func (m *Manager) setProperty(id, key, value string) {
	q, ok := m.qubes[id]
	if !ok || key != "name" || value == "" {
		return
	}
	q.Name = value
	// entry text includes the qube name, so its entries need reindexing
	for _, e := range m.entries {
		if e.QubeID == id {
			m.indexEntry(e)
		}
	}
}

func (m *Manager) upsertEntry(ev admin.Event) {
	p := ev.Entry
	if p == nil {
		log.Warnf("Entry event without payload for %s", ev.ID)
		return
	}
	if _, ok := m.qubes[ev.ID]; !ok {
		return
	}
	e := &Entry{
		ID:          p.ID,
		QubeID:      ev.ID,
		Name:        p.Name,
		GenericName: p.GenericName,
		Comment:     p.Comment,
		Exec:        p.Exec,
		Icon:        p.Icon,
	}
	m.entries[e.ID] = e
	m.indexEntry(e)
}

func (m *Manager) removeEntry(entryID string) {
	if _, ok := m.entries[entryID]; !ok {
		return
	}
	m.index.Delete(entryID)
	delete(m.entries, entryID)
}

func (m *Manager) indexEntry(e *Entry) {
	qubeName := ""
	if q, ok := m.qubes[e.QubeID]; ok {
		qubeName = q.Name
	}
	m.index.Put(e.ID, e.Name, e.GenericName, e.Comment, qubeName)
}

func (m *Manager) refresh() {
	for _, fn := range m.refreshers {
		fn()
	}
}

// Qube looks up a qube by ID. After a domain-delete event the lookup
// reports not found.
func (m *Manager) Qube(id string) (Qube, bool) {
	q, ok := m.qubes[id]
	if !ok {
		return Qube{}, false
	}
	return *q, true
}

// Entry looks up an application entry by its ID.
func (m *Manager) Entry(id string) (Entry, bool) {
	e, ok := m.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Qubes lists all qubes, sorted by name; when the sort-running flag is set,
// running qubes come first.
func (m *Manager) Qubes() []Qube {
	out := make([]Qube, 0, len(m.qubes))
	for _, q := range m.qubes {
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool {
		if m.settings.SortRunning && out[i].Running != out[j].Running {
			return out[i].Running
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Entries lists a qube's entries sorted by display name.
func (m *Manager) Entries(qubeID string) []Entry {
	var out []Entry
	for _, e := range m.entries {
		if e.QubeID == qubeID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Search ranks all entries against query. Results come back ordered by rank
// descending with insertion-order tie-break, at most limit of them (0 for
// all).
func (m *Manager) Search(query string, limit int) []RankedEntry {
	results := m.index.Search(query, limit)
	out := make([]RankedEntry, 0, len(results))
	for _, r := range results {
		e, ok := m.entries[r.ID]
		if !ok {
			continue
		}
		re := RankedEntry{Entry: *e, Rank: r.Rank}
		if q, ok := m.qubes[e.QubeID]; ok {
			re.QubeName = q.Name
			re.Running = q.Running
		}
		out = append(out, re)
	}
	return out
}

// Settings returns the current menu settings.
func (m *Manager) Settings() Settings {
	return m.settings
}

// Page returns the currently selected page index.
func (m *Manager) Page() int {
	return m.page
}

// SetPage selects a page; negative values reset to the configured initial
// page.
func (m *Manager) SetPage(page int) {
	if page < 0 {
		page = m.settings.InitialPage
	}
	m.page = page
}

// ReloadSettings re-reads the menu feature flags from the local qube.
// Absent or malformed flags fall back to the manager's defaults and never
// propagate.
func (m *Manager) ReloadSettings() {
	m.settings = m.defaults
	if m.store == nil {
		return
	}
	if v, ok := m.store.Feature(m.localID, FeatureInitialPage); ok {
		m.settings.InitialPage = utils.ParseIntOr(v, m.defaults.InitialPage)
	}
	if v, ok := m.store.Feature(m.localID, FeatureSortRunning); ok {
		m.settings.SortRunning = utils.ParseBoolOr(v, m.defaults.SortRunning)
	}
	log.Debug("Settings loaded",
		"initial_page", m.settings.InitialPage,
		"sort_running", m.settings.SortRunning)
}

// applySettingsEvent reloads settings when one of the menu feature flags
// changes on the local qube. Other qubes' flags configure nothing here.
func (m *Manager) applySettingsEvent(ev admin.Event) {
	if ev.ID != m.localID {
		return
	}
	m.ReloadSettings()
	m.refresh()
}
