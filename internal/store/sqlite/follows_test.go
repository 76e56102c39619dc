package sqlite

import (
	"context"
	"testing"
	"time"
)

func TestFollow_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "alice", "Alice")
	makeTestUser(t, s, "bob", "Bob")

	created, err := s.Follow(ctx, "alice", "bob", time.Now())
	if err != nil || !created {
		t.Fatalf("Follow = %v, %v", created, err)
	}
	created, err = s.Follow(ctx, "alice", "bob", time.Now())
	if err != nil || created {
		t.Fatalf("second Follow = %v, %v", created, err)
	}

	counts, err := s.CountFollows(ctx, "bob")
	if err != nil {
		t.Fatalf("CountFollows: %v", err)
	}
	if counts.Followers != 1 || counts.Following != 0 {
		t.Errorf("bob counts = %+v", counts)
	}

	following, err := s.IsFollowing(ctx, "alice", "bob")
	if err != nil || !following {
		t.Errorf("IsFollowing = %v, %v", following, err)
	}
	following, err = s.IsFollowing(ctx, "bob", "alice")
	if err != nil || following {
		t.Errorf("reverse IsFollowing = %v, %v", following, err)
	}
}

func TestFollow_SelfIsIgnored(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "alice", "Alice")

	// The CHECK constraint rejects the row and OR IGNORE swallows it.
	created, err := s.Follow(ctx, "alice", "alice", time.Now())
	if err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if created {
		t.Fatal("self-follow must not create an edge")
	}
}

func TestUnfollow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "alice", "Alice")
	makeTestUser(t, s, "bob", "Bob")

	if _, err := s.Follow(ctx, "alice", "bob", time.Now()); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	removed, err := s.Unfollow(ctx, "alice", "bob")
	if err != nil || !removed {
		t.Fatalf("Unfollow = %v, %v", removed, err)
	}
	removed, err = s.Unfollow(ctx, "alice", "bob")
	if err != nil || removed {
		t.Fatalf("second Unfollow = %v, %v", removed, err)
	}
}

func TestListFollowersAndFollowing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "alice", "Alice")
	makeTestUser(t, s, "bob", "Bob")
	makeTestUser(t, s, "carol", "")

	now := time.Now()
	if _, err := s.Follow(ctx, "bob", "alice", now); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if _, err := s.Follow(ctx, "carol", "alice", now.Add(time.Second)); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	followers, err := s.ListFollowers(ctx, "alice")
	if err != nil {
		t.Fatalf("ListFollowers: %v", err)
	}
	if len(followers) != 2 || followers[0].User.ID != "carol" || followers[1].User.ID != "bob" {
		t.Fatalf("unexpected followers: %+v", followers)
	}
	// Users without a name fall back to their email local part.
	if followers[0].User.Name != "carol" {
		t.Errorf("display name = %q", followers[0].User.Name)
	}

	following, err := s.ListFollowing(ctx, "bob")
	if err != nil {
		t.Fatalf("ListFollowing: %v", err)
	}
	if len(following) != 1 || following[0].User.ID != "alice" {
		t.Errorf("unexpected following: %+v", following)
	}
}
