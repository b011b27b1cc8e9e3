package entries

import (
	"reflect"
	"testing"
)

// recorder collects published entries for assertions.
type recorder struct {
	published []Entry
}

func (r *recorder) Publish(entry Entry) {
	r.published = append(r.published, entry)
}

func TestStorePutReplaces(t *testing.T) {
	s := NewStore(nil)

	s.Put("x", "first", "raw", false)
	s.Put("x", "second", "", false)

	list := s.List()
	if len(list) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(list))
	}
	if list[0].Data != "second" {
		t.Errorf("expected replaced data, got %v", list[0].Data)
	}
	if list[0].View != "raw" {
		t.Errorf("empty view must keep the stored view, got %q", list[0].View)
	}
}

func TestStorePutAppendMerges(t *testing.T) {
	s := NewStore(nil)

	s.Put("log", "hello", "", false)
	s.Put("log", "world", "", true)

	if got := s.List()[0].Data; got != "helloworld" {
		t.Errorf("expected helloworld, got %v", got)
	}
}

func TestStorePutAppendOnMissingCreates(t *testing.T) {
	s := NewStore(nil)

	s.Put("fresh", []any{"a"}, "log", true)

	list := s.List()
	if len(list) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(list))
	}
	if !reflect.DeepEqual(list[0].Data, []any{"a"}) {
		t.Errorf("expected the incoming data stored as-is, got %v", list[0].Data)
	}
}

func TestStorePutGeneratesID(t *testing.T) {
	s := NewStore(nil)

	entry := s.Put("", "data", "", false)
	if entry.ID == "" {
		t.Fatal("expected a generated id")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Len())
	}
}

func TestStorePreservesInsertionOrder(t *testing.T) {
	s := NewStore(nil)

	s.Put("a", 1, "", false)
	s.Put("b", 2, "", false)
	s.Put("c", 3, "", false)
	s.Put("a", 10, "", false) // update must not move the entry

	var ids []string
	for _, e := range s.List() {
		ids = append(ids, e.ID)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("expected order %v, got %v", want, ids)
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(nil)

	s.Put("a", 1, "", false)
	s.Put("b", 2, "", false)
	s.Put("c", 3, "", false)

	s.Delete("b")
	s.Delete("b") // idempotent
	s.Delete("never-existed")

	var ids []string
	for _, e := range s.List() {
		ids = append(ids, e.ID)
	}
	if !reflect.DeepEqual(ids, []string{"a", "c"}) {
		t.Errorf("expected [a c], got %v", ids)
	}

	// Positions must be reindexed after removal.
	s.Put("c", 30, "", false)
	if got := s.List()[1].Data; got != 30 {
		t.Errorf("expected update to land on c, got %v", got)
	}
}

func TestStoreClearPublishesSentinel(t *testing.T) {
	rec := &recorder{}
	s := NewStore(rec)

	s.Put("a", 1, "", false)
	s.Put("b", 2, "", false)
	rec.published = nil

	s.Clear()

	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", s.Len())
	}
	if len(rec.published) != 1 {
		t.Fatalf("expected exactly one publish, got %d", len(rec.published))
	}
	if !IsClear(rec.published[0].Data) {
		t.Errorf("expected the clear sentinel, got %v", rec.published[0].Data)
	}
}

func TestStoreSentinelBroadcastsWithoutStoring(t *testing.T) {
	rec := &recorder{}
	s := NewStore(rec)

	s.Put("a", 1, "", false)
	s.Put("", ClearSentinel, "", false)

	// The sentinel reaches viewers but the store is untouched.
	if s.Len() != 1 {
		t.Errorf("sentinel must not be stored or wipe the store, got %d entries", s.Len())
	}
	last := rec.published[len(rec.published)-1]
	if !IsClear(last.Data) {
		t.Errorf("expected sentinel publish, got %v", last.Data)
	}
	for _, e := range s.List() {
		if IsClear(e.Data) {
			t.Error("sentinel must never appear in a snapshot")
		}
	}
}

func TestStorePublishOrderMatchesApplyOrder(t *testing.T) {
	rec := &recorder{}
	s := NewStore(rec)

	s.Put("a", "one", "", false)
	s.Put("a", "two", "", true)
	s.Put("b", 3, "", false)

	if len(rec.published) != 3 {
		t.Fatalf("expected 3 publishes, got %d", len(rec.published))
	}
	if rec.published[1].Data != "onetwo" {
		t.Errorf("publishes must carry post-merge data, got %v", rec.published[1].Data)
	}
	if rec.published[2].ID != "b" {
		t.Errorf("expected b last, got %s", rec.published[2].ID)
	}
}

func TestStoreListSnapshotIsDetached(t *testing.T) {
	s := NewStore(nil)
	s.Put("a", "v", "", false)

	list := s.List()
	list[0].Data = "mutated"

	if got := s.List()[0].Data; got != "v" {
		t.Errorf("snapshot mutation leaked into the store: %v", got)
	}
}
