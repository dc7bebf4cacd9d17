package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/kumarpraveer143/easyrent-sub000/internal/config"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A file-backed database: sqlite ":memory:" gives every pooled
	// connection its own empty database.
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", FilePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAppendRejectsEmptyBody(t *testing.T) {
	s := NewMessageStore(newTestDB(t))

	if _, err := s.Append(context.Background(), "rel1", "alice", ""); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("want ErrEmptyBody, got %v", err)
	}
}

func TestAppendAndList(t *testing.T) {
	s := NewMessageStore(newTestDB(t))
	ctx := context.Background()

	first, err := s.Append(ctx, "rel1", "alice", "hello")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.ID == "" {
		t.Fatal("append should generate an id")
	}
	if first.Read {
		t.Fatal("new messages must start unread")
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("append should set the creation timestamp")
	}

	time.Sleep(2 * time.Millisecond)
	if _, err := s.Append(ctx, "rel1", "bob", "hi there"); err != nil {
		t.Fatalf("append: %v", err)
	}
	// A different relation must not leak in.
	if _, err := s.Append(ctx, "rel2", "carol", "other room"); err != nil {
		t.Fatalf("append: %v", err)
	}

	msgs, err := s.ListByRelation(ctx, "rel1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("want 2 messages, got %d", len(msgs))
	}
	if msgs[0].Body != "hello" || msgs[1].Body != "hi there" {
		t.Fatalf("messages out of order: %q, %q", msgs[0].Body, msgs[1].Body)
	}
	if !msgs[0].CreatedAt.Before(msgs[1].CreatedAt) {
		t.Fatal("list must ascend by creation time")
	}
}

func TestUnreadCountingAndMarkRead(t *testing.T) {
	s := NewMessageStore(newTestDB(t))
	ctx := context.Background()

	// Alternating senders: 2 from alice, 3 from bob.
	for _, m := range []struct{ sender, body string }{
		{"alice", "a1"},
		{"bob", "b1"},
		{"alice", "a2"},
		{"bob", "b2"},
		{"bob", "b3"},
	} {
		if _, err := s.Append(ctx, "rel1", m.sender, m.body); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	aliceUnread, err := s.CountUnread(ctx, "rel1", "alice")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if aliceUnread != 3 {
		t.Fatalf("alice should have 3 unread (bob's messages), got %d", aliceUnread)
	}

	bobUnread, err := s.CountUnread(ctx, "rel1", "bob")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if bobUnread != 2 {
		t.Fatalf("bob should have 2 unread (alice's messages), got %d", bobUnread)
	}

	if err := s.MarkRead(ctx, "rel1", "alice"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	aliceUnread, _ = s.CountUnread(ctx, "rel1", "alice")
	if aliceUnread != 0 {
		t.Fatalf("alice's unread should be 0 after mark read, got %d", aliceUnread)
	}
	// Bob's side is untouched: alice's messages stay unread for him.
	bobUnread, _ = s.CountUnread(ctx, "rel1", "bob")
	if bobUnread != 2 {
		t.Fatalf("bob's unread should still be 2, got %d", bobUnread)
	}

	// Idempotent.
	if err := s.MarkRead(ctx, "rel1", "alice"); err != nil {
		t.Fatalf("repeated mark read: %v", err)
	}
	aliceUnread, _ = s.CountUnread(ctx, "rel1", "alice")
	if aliceUnread != 0 {
		t.Fatalf("unread should stay 0, got %d", aliceUnread)
	}
}
