package habits

import (
	"errors"
	"testing"

	"github.com/julianstephens/voidtrack/internal/constants"
	apperrors "github.com/julianstephens/voidtrack/internal/errors"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/testutil"
)

func newRepo(t *testing.T, queued ...string) *Repository {
	t.Helper()
	s, _ := testutil.NewStorage(t)
	return NewRepository(s, testutil.FixedClock(), testutil.NewStubIDGenerator(queued...))
}

func TestListSeedsDefaultsOnFirstLoad(t *testing.T) {
	s, _ := testutil.NewStorage(t)
	repo := NewRepository(s, testutil.FixedClock(), testutil.NewStubIDGenerator())

	got, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("expected 6 default habits, got %d", len(got))
	}
	for _, h := range got {
		if !IsSeedID(h.ID) {
			t.Errorf("unexpected seed id %q", h.ID)
		}
	}

	persisted, err := s.Habits()
	if err != nil {
		t.Fatalf("seed was not persisted: %v", err)
	}
	if len(persisted) != 6 {
		t.Errorf("expected 6 persisted habits, got %d", len(persisted))
	}
}

func TestListCorruptFallsBackWithoutOverwriting(t *testing.T) {
	s, mem := testutil.NewStorage(t)
	_ = mem.Set(constants.KeyHabits, []byte("{{{"))
	repo := NewRepository(s, testutil.FixedClock(), nil)

	got, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 6 {
		t.Errorf("expected seed fallback, got %d habits", len(got))
	}
	raw, _ := mem.Get(constants.KeyHabits)
	if string(raw) != "{{{" {
		t.Error("corrupt blob should be left in place")
	}
}

func TestListEmptyStoredListIsKept(t *testing.T) {
	s, _ := testutil.NewStorage(t)
	testutil.SeedHabits(t, s)
	repo := NewRepository(s, testutil.FixedClock(), nil)

	got, err := repo.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("an intentionally empty list should not be reseeded, got %d", len(got))
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		draft   models.HabitDraft
		wantErr bool
		check   func(t *testing.T, h models.Habit)
	}{
		{
			name:  "check habit defaults section",
			draft: models.HabitDraft{Title: "  Read  ", Type: models.HabitCheck},
			check: func(t *testing.T, h models.Habit) {
				if h.Title != "Read" || h.Section != constants.SectionOther {
					t.Errorf("unexpected habit: %+v", h)
				}
			},
		},
		{
			name:  "count habit",
			draft: models.HabitDraft{Title: "Water", Type: models.HabitCount, Goal: &models.Goal{Target: 3, Unit: "bottles"}},
		},
		{
			name:    "count habit without target",
			draft:   models.HabitDraft{Title: "Water", Type: models.HabitCount, Goal: &models.Goal{Unit: "bottles"}},
			wantErr: true,
		},
		{
			name:    "count habit without unit",
			draft:   models.HabitDraft{Title: "Water", Type: models.HabitCount, Goal: &models.Goal{Target: 3}},
			wantErr: true,
		},
		{
			name:    "count habit without goal",
			draft:   models.HabitDraft{Title: "Water", Type: models.HabitCount},
			wantErr: true,
		},
		{
			name:  "multi check dedupes items",
			draft: models.HabitDraft{Title: "Morning", Type: models.HabitMultiCheck, Items: []string{"A", " A ", "", "B"}},
			check: func(t *testing.T, h models.Habit) {
				if len(h.Items) != 2 || h.Items[0] != "A" || h.Items[1] != "B" {
					t.Errorf("unexpected items: %v", h.Items)
				}
			},
		},
		{
			name:  "time range gets default minimum",
			draft: models.HabitDraft{Title: "Sleep", Type: models.HabitTimeRange},
			check: func(t *testing.T, h models.Habit) {
				if h.MinDurationMinutes() != constants.DefaultMinSleepMinutes {
					t.Errorf("expected default minimum, got %d", h.MinDurationMinutes())
				}
			},
		},
		{
			name:    "empty title",
			draft:   models.HabitDraft{Title: "   ", Type: models.HabitCheck},
			wantErr: true,
		},
		{
			name:    "unknown type",
			draft:   models.HabitDraft{Title: "Mystery", Type: "weekly"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(t)
			h, err := repo.Create(tt.draft)
			if tt.wantErr {
				var vErr *apperrors.ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if h.ID == "" || h.CreatedAt.IsZero() {
				t.Errorf("id and created_at should be assigned: %+v", h)
			}
			if tt.check != nil {
				tt.check(t, h)
			}
		})
	}
}

func TestCreateDoesNotPersistOnValidationError(t *testing.T) {
	repo := newRepo(t)
	before, _ := repo.List()
	if _, err := repo.Create(models.HabitDraft{Title: "", Type: models.HabitCheck}); err == nil {
		t.Fatal("expected error")
	}
	after, _ := repo.List()
	if len(after) != len(before) {
		t.Errorf("habit list changed after a failed create")
	}
}

func TestCreateSkipsIDsReferencedByLogs(t *testing.T) {
	s, _ := testutil.NewStorage(t)
	testutil.SeedHabits(t, s)
	testutil.SeedLogs(t, s, models.LogBook{"2024-01-01": {"reused": testutil.Completed()}})
	repo := NewRepository(s, testutil.FixedClock(), testutil.NewStubIDGenerator("reused", "fresh"))

	h, err := repo.Create(models.HabitDraft{Title: "New", Type: models.HabitCheck})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if h.ID != "fresh" {
		t.Errorf("expected id 'fresh', got %q", h.ID)
	}
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	s, _ := testutil.NewStorage(t)
	testutil.SeedHabits(t, s, testutil.CheckHabit("dup"))
	queued := make([]string, maxIDAttempts)
	for i := range queued {
		queued[i] = "dup"
	}
	repo := NewRepository(s, testutil.FixedClock(), testutil.NewStubIDGenerator(queued...))

	if _, err := repo.Create(models.HabitDraft{Title: "New", Type: models.HabitCheck}); err == nil {
		t.Error("expected error after exhausting id attempts")
	}
}

func TestUpdate(t *testing.T) {
	s, _ := testutil.NewStorage(t)
	testutil.SeedHabits(t, s, testutil.CountHabit("water", 3))
	repo := NewRepository(s, testutil.FixedClock(), nil)

	title := "Hydrate"
	updated, err := repo.Update("water", models.HabitPatch{Title: &title, Goal: &models.Goal{Target: 4, Unit: "bottles"}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "Hydrate" || updated.Target() != 4 || updated.Type != models.HabitCount {
		t.Errorf("unexpected update result: %+v", updated)
	}

	bad := &models.Goal{Target: 0, Unit: "bottles"}
	if _, err := repo.Update("water", models.HabitPatch{Goal: bad}); err == nil {
		t.Fatal("expected validation error")
	}
	stored, _ := repo.Get("water")
	if stored.Target() != 4 {
		t.Errorf("failed update should leave stored habit unchanged, got target %v", stored.Target())
	}

	if _, err := repo.Update("missing", models.HabitPatch{Title: &title}); err == nil {
		t.Error("expected not found error")
	} else {
		var nf *apperrors.NotFoundError
		if !errors.As(err, &nf) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	}
}

func TestDeleteLeavesLogs(t *testing.T) {
	s, _ := testutil.NewStorage(t)
	testutil.SeedHabits(t, s, testutil.CheckHabit("a"), testutil.CheckHabit("b"))
	testutil.SeedLogs(t, s, models.LogBook{"2024-01-01": {"a": testutil.Completed()}})
	repo := NewRepository(s, testutil.FixedClock(), nil)

	if err := repo.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	all, _ := repo.List()
	if len(all) != 1 || all[0].ID != "b" {
		t.Errorf("unexpected habits after delete: %+v", all)
	}
	book, _ := s.Logs()
	if _, ok := book.Entry("2024-01-01", "a"); !ok {
		t.Error("log entries of a deleted habit should be left in place")
	}

	if err := repo.Delete("a"); err == nil {
		t.Error("expected error deleting a missing habit")
	}
}

func TestArchiveAndActive(t *testing.T) {
	s, _ := testutil.NewStorage(t)
	testutil.SeedHabits(t, s, testutil.CheckHabit("a"), testutil.CheckHabit("b"))
	repo := NewRepository(s, testutil.FixedClock(), nil)

	h, err := repo.Archive("a")
	if err != nil || !h.Archived {
		t.Fatalf("Archive failed: %v %+v", err, h)
	}
	active, _ := repo.Active()
	if len(active) != 1 || active[0].ID != "b" {
		t.Errorf("archived habit should be hidden from Active: %+v", active)
	}

	if _, err := repo.Unarchive("a"); err != nil {
		t.Fatal(err)
	}
	active, _ = repo.Active()
	if len(active) != 2 {
		t.Errorf("expected 2 active habits, got %d", len(active))
	}
}

func TestRenameSection(t *testing.T) {
	s, _ := testutil.NewStorage(t)
	noSection := testutil.CheckHabit("loose")
	noSection.Section = ""
	testutil.SeedHabits(t, s, noSection, testutil.CheckHabit("other"), testutil.CountHabit("water", 3))
	repo := NewRepository(s, testutil.FixedClock(), nil)

	key, err := repo.RenameSection("other", "  House   Chores ")
	if err != nil {
		t.Fatalf("RenameSection failed: %v", err)
	}
	if key != "house_chores" {
		t.Errorf("expected key house_chores, got %q", key)
	}
	all, _ := repo.List()
	for _, h := range all {
		want := "house_chores"
		if h.ID == "water" {
			want = "daytime"
		}
		if h.Section != want {
			t.Errorf("habit %s: expected section %q, got %q", h.ID, want, h.Section)
		}
	}

	if _, err := repo.RenameSection("daytime", "   "); err == nil {
		t.Error("expected validation error for empty section name")
	}
}

func TestSectionKey(t *testing.T) {
	tests := map[string]string{
		"Morning":         "morning",
		"  Late  Night  ": "late_night",
		"Chores":          "chores",
		"":                "",
	}
	for in, want := range tests {
		if got := SectionKey(in); got != want {
			t.Errorf("SectionKey(%q) = %q, want %q", in, got, want)
		}
	}
}
