package message_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/shadowai/shadowai/internal/domain"
	"github.com/shadowai/shadowai/internal/repository/message"
)

func newTestRepo(t *testing.T) message.MessageRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Message{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return message.NewMessageRepository(db)
}

func TestCreateValidatesInput(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cases := []struct {
		name string
		msg  *domain.Message
	}{
		{"missing conversation", &domain.Message{Role: domain.RoleUser, Content: "hi"}},
		{"empty content", &domain.Message{ConversationID: 1, Role: domain.RoleUser, Content: "   "}},
		{"bad role", &domain.Message{ConversationID: 1, Role: "narrator", Content: "hi"}},
	}
	for _, tc := range cases {
		if _, err := repo.Create(ctx, tc.msg); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestTranscriptOrderingSurvivesOutOfOrderInserts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	inserts := []struct {
		content string
		at      time.Time
	}{
		{"third", base.Add(2 * time.Minute)},
		{"first", base},
		{"second", base.Add(time.Minute)},
	}
	for _, in := range inserts {
		if _, err := repo.Create(ctx, &domain.Message{
			ConversationID: 1,
			Role:           domain.RoleUser,
			Content:        in.content,
			CreatedAt:      in.at,
		}); err != nil {
			t.Fatalf("create %q: %v", in.content, err)
		}
	}

	got, err := repo.FindByConversationID(ctx, 1)
	if err != nil {
		t.Fatalf("FindByConversationID: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Content != w {
			t.Errorf("position %d: expected %q, got %q", i, w, got[i].Content)
		}
	}
}

func TestOrderingTiebreakOnEqualTimestamps(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for _, content := range []string{"a", "b", "c"} {
		if _, err := repo.Create(ctx, &domain.Message{
			ConversationID: 1,
			Role:           domain.RoleUser,
			Content:        content,
			CreatedAt:      at,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.FindByConversationID(ctx, 1)
	if err != nil {
		t.Fatalf("FindByConversationID: %v", err)
	}

	// Equal timestamps fall back to insertion order via the id column.
	for i, want := range []string{"a", "b", "c"} {
		if got[i].Content != want {
			t.Errorf("position %d: expected %q, got %q", i, want, got[i].Content)
		}
	}
}

func TestFindRecentReturnsChronologicalWindow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		if _, err := repo.Create(ctx, &domain.Message{
			ConversationID: 1,
			Role:           domain.RoleUser,
			Content:        string(rune('a' + i)),
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.FindRecent(ctx, 1, 10)
	if err != nil {
		t.Fatalf("FindRecent: %v", err)
	}

	if len(got) != 10 {
		t.Fatalf("expected 10 messages, got %d", len(got))
	}
	if got[0].Content != "f" || got[9].Content != "o" {
		t.Errorf("window should hold the newest 10 oldest-first, got %q..%q", got[0].Content, got[9].Content)
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.Before(got[i-1].CreatedAt) {
			t.Errorf("window not chronological at %d", i)
		}
	}
}

func TestCountAndDeleteByConversation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for conv := uint(1); conv <= 2; conv++ {
		for i := 0; i < 3; i++ {
			if _, err := repo.Create(ctx, &domain.Message{
				ConversationID: conv,
				Role:           domain.RoleUser,
				Content:        "msg",
			}); err != nil {
				t.Fatalf("create: %v", err)
			}
		}
	}

	count, err := repo.CountByConversationID(ctx, 1)
	if err != nil || count != 3 {
		t.Fatalf("expected count 3, got %d (%v)", count, err)
	}

	if err := repo.DeleteByConversationID(ctx, 1); err != nil {
		t.Fatalf("DeleteByConversationID: %v", err)
	}

	count, _ = repo.CountByConversationID(ctx, 1)
	if count != 0 {
		t.Errorf("conversation 1 should be empty, got %d", count)
	}
	count, _ = repo.CountByConversationID(ctx, 2)
	if count != 3 {
		t.Errorf("other conversations must be untouched, got %d", count)
	}
}
