package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

func TestUpsertPreferences_PartialKeepsOtherFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "user-1", "Ada")

	yes := true
	got, err := s.UpsertPreferences(ctx, "user-1", domain.PreferencesPatch{ShowEmail: &yes}, time.Now())
	if err != nil {
		t.Fatalf("UpsertPreferences: %v", err)
	}
	if !got.ShowEmail {
		t.Error("show_email should be on")
	}
	if !got.WeeklyDigest {
		t.Error("weekly_digest must keep its prior value")
	}

	no := false
	theme := "berry"
	got, err = s.UpsertPreferences(ctx, "user-1", domain.PreferencesPatch{WeeklyDigest: &no, ColorTheme: &theme}, time.Now())
	if err != nil {
		t.Fatalf("UpsertPreferences: %v", err)
	}
	if got.WeeklyDigest || !got.ShowEmail || got.ColorTheme != "berry" {
		t.Errorf("unexpected preferences after second patch: %+v", got)
	}
	if got.LastActive == nil {
		t.Error("last_active should be set on write")
	}
}

func TestUpsertPreferences_NoRowStartsFromDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "user-1", "Ada")

	if _, err := s.db.Exec(`DELETE FROM user_preferences WHERE user_id = ?`, "user-1"); err != nil {
		t.Fatalf("delete row: %v", err)
	}
	if _, err := s.GetPreferences(ctx, "user-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	yes := true
	got, err := s.UpsertPreferences(ctx, "user-1", domain.PreferencesPatch{ShowActivity: &yes}, time.Now())
	if err != nil {
		t.Fatalf("UpsertPreferences: %v", err)
	}

	want := domain.DefaultPreferences("user-1")
	want.ShowActivity = true
	for _, c := range prefBoolColumns {
		if *c.field(got) != *c.field(&want) {
			t.Errorf("%s = %v, want %v", c.name, *c.field(got), *c.field(&want))
		}
	}
}

func TestUpsertPreferences_UnknownUser(t *testing.T) {
	s := newTestStore(t)
	yes := true
	_, err := s.UpsertPreferences(context.Background(), "ghost", domain.PreferencesPatch{ShowEmail: &yes}, time.Now())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
