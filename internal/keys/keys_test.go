package keys

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMemory_RecordAndCopy(t *testing.T) {
	m := NewMemory()
	ref := Ref{Table: "consumer_lending.loan_applications", Column: "loan_application_id"}
	m.Record(ref, 1)
	m.Record(ref, 2)

	got, err := m.Keys(context.Background(), ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 keys, got %v", got)
	}
	got[0] = 99
	again, _ := m.Keys(context.Background(), ref)
	if again[0] != 1 {
		t.Fatal("Keys must return a copy")
	}

	none, err := m.Keys(context.Background(), Ref{Table: "x", Column: "id"})
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty result, got %v %v", none, err)
	}
}

type failingSource struct{}

func (failingSource) Keys(ctx context.Context, ref Ref) ([]interface{}, error) {
	return nil, fmt.Errorf("boom")
}

func TestChain_FirstNonEmptyWins(t *testing.T) {
	ref := Ref{Table: "t", Column: "id"}
	a := NewMemory()
	b := NewMemory()
	b.Record(ref, "from-b")

	got, err := Chain{a, b}.Keys(context.Background(), ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "from-b" {
		t.Fatalf("unexpected keys: %v", got)
	}

	if _, err := (Chain{a, failingSource{}}).Keys(context.Background(), ref); err == nil {
		t.Fatal("expected error from failing source")
	}
}

func TestMissingError(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &MissingError{Ref: Ref{Table: "security.identities", Column: "identity_id"}})
	if !errors.Is(err, ErrMissing) {
		t.Fatal("expected errors.Is(ErrMissing)")
	}
}

func TestSplitTable(t *testing.T) {
	s, tbl := SplitTable("mortgage_services.applications")
	if s != "mortgage_services" || tbl != "applications" {
		t.Fatalf("got %q %q", s, tbl)
	}
	s, tbl = SplitTable("applications")
	if s != "" || tbl != "applications" {
		t.Fatalf("got %q %q", s, tbl)
	}
}
