package completion

import (
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/habitcontrol/internal/models"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("c%d", n)
	}
}

func TestUpsertThenFind(t *testing.T) {
	log := NewLog(nil, sequentialIDs())
	at := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	created := log.Upsert("h1", "2025-03-03", true, at)
	if created.ID != "c1" {
		t.Errorf("expected id c1, got %s", created.ID)
	}

	got, ok := log.Find("h1", "2025-03-03")
	if !ok {
		t.Fatal("expected completion to be found")
	}
	if !got.Completed {
		t.Error("expected completed to be true")
	}
	if !got.CompletedAt.Equal(at) {
		t.Errorf("expected completedAt %v, got %v", at, got.CompletedAt)
	}

	if _, ok := log.Find("h1", "2025-03-04"); ok {
		t.Error("expected no completion on another date")
	}
	if _, ok := log.Find("h2", "2025-03-03"); ok {
		t.Error("expected no completion for another habit")
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	log := NewLog(nil, sequentialIDs())
	first := log.Upsert("h1", "2025-03-03", true, time.Now())
	second := log.Upsert("h1", "2025-03-03", true, time.Now())

	if log.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", log.Len())
	}
	if first.ID != second.ID {
		t.Errorf("expected id to be preserved, got %s and %s", first.ID, second.ID)
	}
	if !second.Completed {
		t.Error("expected completed to be true")
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	log := NewLog(nil, sequentialIDs())
	first := log.Upsert("h1", "2025-03-03", true, time.Now())
	updated := log.Upsert("h1", "2025-03-03", false, time.Now())

	if updated.ID != first.ID {
		t.Errorf("expected id %s, got %s", first.ID, updated.ID)
	}
	got, _ := log.Find("h1", "2025-03-03")
	if got.Completed {
		t.Error("expected completed to be false after update")
	}
}

func TestPrepareDoesNotMutate(t *testing.T) {
	log := NewLog(nil, sequentialIDs())
	c := log.Prepare("h1", "2025-03-03", true, time.Now())
	if c.ID == "" {
		t.Error("expected prepared record to have an id")
	}
	if log.Len() != 0 {
		t.Errorf("expected empty log, got %d records", log.Len())
	}
}

func TestRemoveByHabit(t *testing.T) {
	log := NewLog(nil, sequentialIDs())
	now := time.Now()
	log.Upsert("h1", "2025-03-03", true, now)
	log.Upsert("h2", "2025-03-03", true, now)
	log.Upsert("h1", "2025-03-04", false, now)
	log.Upsert("h2", "2025-03-05", true, now)

	if removed := log.RemoveByHabit("h1"); removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	for _, date := range []string{"2025-03-03", "2025-03-04"} {
		if _, ok := log.Find("h1", date); ok {
			t.Errorf("expected no completion for h1 on %s", date)
		}
	}

	// Index must still resolve the records that moved.
	if _, ok := log.Find("h2", "2025-03-05"); !ok {
		t.Error("expected h2 completion to survive")
	}
	if log.Len() != 2 {
		t.Errorf("expected 2 records, got %d", log.Len())
	}
	if removed := log.RemoveByHabit("missing"); removed != 0 {
		t.Errorf("expected 0 removed, got %d", removed)
	}
}

func TestNewLogDeduplicates(t *testing.T) {
	records := []models.HabitCompletion{
		{ID: "a", HabitID: "h1", Date: "2025-03-03", Completed: true},
		{ID: "b", HabitID: "h1", Date: "2025-03-03", Completed: false},
		{ID: "c", HabitID: "h1", Date: "2025-03-04", Completed: true},
	}
	log := NewLog(records, sequentialIDs())

	if log.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", log.Len())
	}
	got, _ := log.Find("h1", "2025-03-03")
	if got.ID != "b" || got.Completed {
		t.Errorf("expected later record to win, got %+v", got)
	}
	if n := len(log.ForHabit("h1")); n != 2 {
		t.Errorf("expected 2 records for h1, got %d", n)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	log := NewLog(nil, sequentialIDs())
	log.Upsert("h1", "2025-03-03", true, time.Now())

	all := log.All()
	all[0].Completed = false

	got, _ := log.Find("h1", "2025-03-03")
	if !got.Completed {
		t.Error("expected log to be unaffected by changes to All()")
	}
}
