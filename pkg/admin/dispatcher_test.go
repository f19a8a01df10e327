package admin

import "testing"

func TestDispatcherRegistrationOrder(t *testing.T) {
	d := NewDispatcher()

	var order []int
	d.AddHandler(DomainAdd, func(Event) { order = append(order, 1) })
	d.AddHandler(DomainAdd, func(Event) { order = append(order, 2) })
	d.AddHandler(DomainAdd, func(Event) { order = append(order, 3) })

	d.Dispatch(Event{Kind: DomainAdd, ID: "work"})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("handlers ran out of registration order: %v", order)
	}
}

func TestDispatcherDetailRouting(t *testing.T) {
	d := NewDispatcher()

	var got []string
	d.AddHandler(FeatureSet, func(ev Event) { got = append(got, "kind") })
	d.AddHandler(FeatureSet+":menu-initial-page", func(ev Event) { got = append(got, "detail") })

	d.Dispatch(Event{Kind: FeatureSet, ID: "dom0",
		Data: map[string]string{"feature": "menu-initial-page", "value": "2"}})

	if len(got) != 2 || got[0] != "kind" || got[1] != "detail" {
		t.Fatalf("routing = %v, want [kind detail]", got)
	}

	got = nil
	d.Dispatch(Event{Kind: FeatureSet, ID: "dom0",
		Data: map[string]string{"feature": "unrelated", "value": "x"}})
	if len(got) != 1 || got[0] != "kind" {
		t.Errorf("detail handler fired for wrong feature: %v", got)
	}
}

func TestDispatcherUnhandledKindIsSilent(t *testing.T) {
	d := NewDispatcher()
	// must simply not panic
	d.Dispatch(Event{Kind: "domain-pre-start", ID: "work"})
}

func TestEventDetail(t *testing.T) {
	testCases := []struct {
		event       Event
		expected    string
		description string
	}{
		{Event{Kind: FeatureSet, Data: map[string]string{"feature": "f"}}, "f", "Feature set"},
		{Event{Kind: FeatureDelete, Data: map[string]string{"feature": "f"}}, "f", "Feature delete"},
		{Event{Kind: PropertySet, Data: map[string]string{"property": "name"}}, "name", "Property set"},
		{Event{Kind: DomainAdd, Data: map[string]string{"feature": "f"}}, "", "Kinds without details"},
		{Event{Kind: FeatureSet}, "", "No data map"},
	}

	for _, tc := range testCases {
		if got := tc.event.Detail(); got != tc.expected {
			t.Errorf("%s: Detail() = %q, want %q", tc.description, got, tc.expected)
		}
	}
}
