package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/Shiva911-as/news-app/dbopen"
	"github.com/Shiva911-as/news-app/newsfeed/internal/rank"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
}

func click(t *testing.T, s *Store, id, user, category string) *CategoryPreference {
	t.Helper()
	pref, err := s.RecordEvent(context.Background(), &InteractionEvent{
		ID: id, UserID: user, Category: category, EventType: EventClick,
		ArticleURL: "https://example.com/" + id,
	}, rank.DefaultWeights())
	if err != nil {
		t.Fatalf("record click: %v", err)
	}
	return pref
}

func read(t *testing.T, s *Store, id, user, category string, seconds float64) *CategoryPreference {
	t.Helper()
	pref, err := s.RecordEvent(context.Background(), &InteractionEvent{
		ID: id, UserID: user, Category: category, EventType: EventRead,
		ArticleURL: "https://example.com/" + id, ReadingTime: seconds,
	}, rank.DefaultWeights())
	if err != nil {
		t.Fatalf("record read: %v", err)
	}
	return pref
}

func TestApplySchema(t *testing.T) {
	// WHAT: Verify schema creates both tables without error.
	// WHY: Schema is the foundation — if it fails, nothing works.
	db := dbopen.OpenMemory(t)
	if err := ApplySchema(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	if err := ApplySchema(db); err != nil {
		t.Fatalf("apply schema twice (must be idempotent): %v", err)
	}
	for _, table := range []string{"user_interactions", "user_preferences"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestClickCreatesPreferenceRow(t *testing.T) {
	// WHAT: First click for a pair creates the projection row with clicks=1.
	// WHY: recordClick must create the row if absent, starting from zero.
	db := openTestDB(t)
	s := NewStore(db)

	pref := click(t, s, "evt-1", "u1", "technology")
	if pref.Clicks != 1 {
		t.Errorf("clicks: got %d, want 1", pref.Clicks)
	}
	if pref.AvgReadingTime != 0 {
		t.Errorf("avg: got %v, want 0", pref.AvgReadingTime)
	}
	if pref.Score != 1.0 {
		t.Errorf("score: got %v, want 1.0", pref.Score)
	}
}

func TestReadingTimeIsMeanOverHistory(t *testing.T) {
	// WHAT: avg_reading_time after reads of 30 and 20 seconds is exactly 25.0.
	// WHY: The contract is mean over all read events, not sum or latest.
	db := openTestDB(t)
	s := NewStore(db)

	read(t, s, "evt-1", "u1", "technology", 30)
	pref := read(t, s, "evt-2", "u1", "technology", 20)

	if pref.AvgReadingTime != 25.0 {
		t.Errorf("avg: got %v, want 25.0", pref.AvgReadingTime)
	}
	if pref.TotalReadingTime != 50.0 {
		t.Errorf("total: got %v, want 50.0", pref.TotalReadingTime)
	}
}

func TestScoreInvariantAfterEveryMutation(t *testing.T) {
	// WHAT: score == clicks*1.0 + avg*0.1 after each event in a replay.
	// WHY: The invariant must hold continuously, not only at the end.
	db := openTestDB(t)
	s := NewStore(db)

	steps := []struct {
		kind    string
		seconds float64
	}{
		{"click", 0}, {"read", 40}, {"click", 0}, {"read", 50}, {"click", 0}, {"read", 45},
	}
	for i, step := range steps {
		var pref *CategoryPreference
		id := fmt.Sprintf("evt-%d", i)
		if step.kind == "click" {
			pref = click(t, s, id, "u1", "technology")
		} else {
			pref = read(t, s, id, "u1", "technology", step.seconds)
		}
		want := float64(pref.Clicks)*1.0 + pref.AvgReadingTime*0.1
		if pref.Score != want {
			t.Errorf("step %d: score %v, want %v", i, pref.Score, want)
		}
	}

	final, err := s.GetPreference(context.Background(), "u1", "technology")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if final.Clicks != 3 {
		t.Errorf("clicks: got %d, want 3", final.Clicks)
	}
	if final.AvgReadingTime != 45.0 {
		t.Errorf("avg: got %v, want 45.0", final.AvgReadingTime)
	}
	if final.Score != 7.5 {
		t.Errorf("score: got %v, want 7.5", final.Score)
	}
}

func TestWorkedExampleTwoCategories(t *testing.T) {
	// WHAT: 3 tech clicks + reads 40/50/45 and 1 sports click + read 20.
	// WHY: Canonical example — tech 7.5, sports 3.0.
	db := openTestDB(t)
	s := NewStore(db)
	ctx := context.Background()

	click(t, s, "t1", "u1", "technology")
	read(t, s, "t1r", "u1", "technology", 40)
	click(t, s, "t2", "u1", "technology")
	read(t, s, "t2r", "u1", "technology", 50)
	click(t, s, "t3", "u1", "technology")
	read(t, s, "t3r", "u1", "technology", 45)
	click(t, s, "s1", "u1", "sports")
	read(t, s, "s1r", "u1", "sports", 20)

	prefs, err := s.Preferences(ctx, "u1")
	if err != nil {
		t.Fatalf("preferences: %v", err)
	}
	if len(prefs) != 2 {
		t.Fatalf("rows: got %d, want 2", len(prefs))
	}
	byCat := map[string]*CategoryPreference{}
	for _, p := range prefs {
		byCat[p.Category] = p
	}
	tech := byCat["technology"]
	if tech.Clicks != 3 || tech.AvgReadingTime != 45.0 || tech.Score != 7.5 {
		t.Errorf("technology: got clicks=%d avg=%v score=%v", tech.Clicks, tech.AvgReadingTime, tech.Score)
	}
	sports := byCat["sports"]
	if sports.Clicks != 1 || sports.AvgReadingTime != 20.0 || sports.Score != 3.0 {
		t.Errorf("sports: got clicks=%d avg=%v score=%v", sports.Clicks, sports.AvgReadingTime, sports.Score)
	}
}

func TestPreferencesIsolatedPerUser(t *testing.T) {
	// WHAT: Preferences only returns the requested user's rows.
	// WHY: Anonymous IDs partition all learning state.
	db := openTestDB(t)
	s := NewStore(db)

	click(t, s, "a1", "alice", "technology")
	click(t, s, "b1", "bob", "sports")

	prefs, err := s.Preferences(context.Background(), "alice")
	if err != nil {
		t.Fatalf("preferences: %v", err)
	}
	if len(prefs) != 1 || prefs[0].Category != "technology" {
		t.Errorf("got %+v, want only alice/technology", prefs)
	}
}

func TestGetPreferenceMissingIsNil(t *testing.T) {
	// WHAT: A pair with no history yields nil, not an error.
	// WHY: Missing preferences are a normal state for new users.
	db := openTestDB(t)
	s := NewStore(db)

	p, err := s.GetPreference(context.Background(), "nobody", "technology")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p != nil {
		t.Errorf("got %+v, want nil", p)
	}
}

func TestConcurrentClicksLoseNothing(t *testing.T) {
	// WHAT: Parallel clicks on the same pair all land in the projection.
	// WHY: The transactional full-history recompute prevents lost updates.
	db := openTestDB(t)
	s := NewStore(db)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.RecordEvent(context.Background(), &InteractionEvent{
				ID: fmt.Sprintf("evt-%d", i), UserID: "u1", Category: "technology",
				EventType: EventClick,
			}, rank.DefaultWeights())
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	pref, err := s.GetPreference(context.Background(), "u1", "technology")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if pref.Clicks != n {
		t.Errorf("clicks: got %d, want %d", pref.Clicks, n)
	}
	if pref.Score != float64(n) {
		t.Errorf("score: got %v, want %v", pref.Score, float64(n))
	}
}

func TestListEvents(t *testing.T) {
	// WHAT: ListEvents returns a user's events, newest first.
	// WHY: The event log is the source of truth for every recompute.
	db := openTestDB(t)
	s := NewStore(db)

	click(t, s, "e1", "u1", "technology")
	read(t, s, "e2", "u1", "sports", 15)

	events, err := s.ListEvents(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("count: got %d, want 2", len(events))
	}
}

func TestStats(t *testing.T) {
	// WHAT: Stats counts events, distinct users, and projection rows.
	// WHY: The ops endpoint reports these counters.
	db := openTestDB(t)
	s := NewStore(db)

	click(t, s, "e1", "u1", "technology")
	click(t, s, "e2", "u1", "technology")
	click(t, s, "e3", "u2", "sports")

	st, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Events != 3 || st.Users != 2 || st.Preferences != 2 {
		t.Errorf("stats: got %+v", st)
	}
}
