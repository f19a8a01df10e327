package server

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/qubemenu/qubemenu/pkg/admin"
	"github.com/qubemenu/qubemenu/pkg/config"
	"github.com/qubemenu/qubemenu/pkg/menu"
)

func testManager(t *testing.T) (*menu.Manager, *menu.Loop) {
	t.Helper()
	m := menu.NewManager("dom0", admin.NewMemStore())
	m.Apply(admin.Event{Kind: admin.DomainAdd, ID: "work", Data: map[string]string{"name": "work"}})
	m.Apply(admin.Event{Kind: admin.DomainStart, ID: "work"})
	m.Apply(admin.Event{Kind: admin.EntryAdd, ID: "work", Entry: &admin.EntryPayload{
		ID:   "work/firefox",
		Name: "Firefox",
		Exec: "/usr/bin/firefox",
	}})

	loop := menu.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go loop.Run(ctx)
	return m, loop
}

// runExchange feeds encoded requests to a server and returns a decoder over
// everything it wrote back, positioned after the ready message.
func runExchange(t *testing.T, requests ...interface{}) *msgpack.Decoder {
	t.Helper()
	mgr, loop := testManager(t)

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		if err := enc.Encode(req); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	srv := NewServerWithStreams(mgr, loop, config.DefaultConfig(), &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	var ready map[string]string
	if err := dec.Decode(&ready); err != nil {
		t.Fatalf("decoding ready message: %v", err)
	}
	if ready["status"] != "ready" {
		t.Fatalf("ready message = %v", ready)
	}
	return dec
}

func TestServerSearch(t *testing.T) {
	dec := runExchange(t, SearchRequest{ID: "r1", Query: "fire", Limit: 10})

	var resp SearchResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID != "r1" || resp.Count != 1 {
		t.Fatalf("response = %+v", resp)
	}

	hit := resp.Suggestions[0]
	if hit.EntryID != "work/firefox" || hit.QubeName != "work" || !hit.Running {
		t.Errorf("hit = %+v", hit)
	}
	if hit.Name != "<b>Fire</b>fox" {
		t.Errorf("highlight markup = %q", hit.Name)
	}
	if hit.Rank <= 0 {
		t.Errorf("rank = %v", hit.Rank)
	}
}

func TestServerSearchNoMatch(t *testing.T) {
	dec := runExchange(t, SearchRequest{ID: "r1", Query: "gimp"})

	var resp SearchResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 0 || len(resp.Suggestions) != 0 {
		t.Errorf("response = %+v", resp)
	}
}

func TestServerSearchTooLong(t *testing.T) {
	dec := runExchange(t, SearchRequest{ID: "r1", Query: strings.Repeat("a", 80)})

	var errResp RequestError
	if err := dec.Decode(&errResp); err != nil {
		t.Fatal(err)
	}
	if errResp.ID != "r1" || errResp.Code != 400 {
		t.Errorf("error = %+v", errResp)
	}
}

func TestServerFilteredQueryIsEmptyNotError(t *testing.T) {
	dec := runExchange(t, SearchRequest{ID: "r1", Query: "????"})

	var resp SearchResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID != "r1" || resp.Count != 0 {
		t.Errorf("filtered query should return empty results: %+v", resp)
	}
}

func TestServerMenuActions(t *testing.T) {
	page := 2
	dec := runExchange(t,
		MenuRequest{ID: "m0", Action: "health"},
		MenuRequest{ID: "m1", Action: "get_state"},
		MenuRequest{ID: "m2", Action: "set_page", Page: &page},
		MenuRequest{ID: "m3", Action: "get_page"},
		MenuRequest{ID: "m4", Action: "reset"},
		MenuRequest{ID: "m5", Action: "bogus"},
	)

	var health MenuResponse
	if err := dec.Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.ID != "m0" || health.Status != "ok" {
		t.Fatalf("health = %+v", health)
	}

	var state MenuResponse
	if err := dec.Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.ID != "m1" || state.Status != "ok" {
		t.Fatalf("get_state = %+v", state)
	}
	if len(state.Qubes) != 1 || state.Qubes[0].Name != "work" || state.Qubes[0].Entries != 1 {
		t.Errorf("qube state = %+v", state.Qubes)
	}

	var setResp MenuResponse
	if err := dec.Decode(&setResp); err != nil {
		t.Fatal(err)
	}
	if setResp.Page != 2 {
		t.Errorf("set_page = %+v", setResp)
	}

	var pageResp MenuResponse
	if err := dec.Decode(&pageResp); err != nil {
		t.Fatal(err)
	}
	if pageResp.ID != "m3" || pageResp.Page != 2 {
		t.Errorf("get_page = %+v", pageResp)
	}

	var resetResp MenuResponse
	if err := dec.Decode(&resetResp); err != nil {
		t.Fatal(err)
	}
	if resetResp.Page != menu.DefaultInitialPage {
		t.Errorf("reset = %+v", resetResp)
	}

	var errResp RequestError
	if err := dec.Decode(&errResp); err != nil {
		t.Fatal(err)
	}
	if errResp.ID != "m5" || errResp.Code != 400 {
		t.Errorf("unknown action = %+v", errResp)
	}
}

func TestServerReloadSettings(t *testing.T) {
	store := admin.NewMemStore()
	mgr := menu.NewManager("dom0", store)
	loop := menu.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go loop.Run(ctx)

	// flags changed after startup stay invisible until a reload request
	store.Set("dom0", menu.FeatureSortRunning, "true")

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range []MenuRequest{
		{ID: "s1", Action: "get_state"},
		{ID: "s2", Action: "reload_settings"},
		{ID: "s3", Action: "get_state"},
	} {
		if err := enc.Encode(req); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	srv := NewServerWithStreams(mgr, loop, config.DefaultConfig(), &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	var ready map[string]string
	if err := dec.Decode(&ready); err != nil {
		t.Fatal(err)
	}

	var before MenuResponse
	if err := dec.Decode(&before); err != nil {
		t.Fatal(err)
	}
	if before.SortRunning {
		t.Fatalf("settings changed without a reload: %+v", before)
	}

	var reload MenuResponse
	if err := dec.Decode(&reload); err != nil {
		t.Fatal(err)
	}
	if reload.ID != "s2" || reload.Status != "ok" || !reload.SortRunning {
		t.Errorf("reload_settings = %+v", reload)
	}

	var after MenuResponse
	if err := dec.Decode(&after); err != nil {
		t.Fatal(err)
	}
	if !after.SortRunning {
		t.Errorf("state after reload = %+v", after)
	}
}

func TestServerMissingParameters(t *testing.T) {
	dec := runExchange(t, map[string]string{"id": "x1"})

	var errResp RequestError
	if err := dec.Decode(&errResp); err != nil {
		t.Fatal(err)
	}
	if errResp.ID != "x1" || errResp.Code != 400 {
		t.Errorf("error = %+v", errResp)
	}
}
