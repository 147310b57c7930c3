package service

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/store"
)

func newTestChatService(gen *fakeGenerator) (*ChatService, *fakeChatStore) {
	chats := newFakeChatStore()
	svc := NewChatService(chats, gen, slog.Default())
	svc.debounce = 20 * time.Millisecond
	return svc, chats
}

func chatSession(t *testing.T, id string, contents ...string) *domain.ChatSession {
	t.Helper()

	messages := make([]domain.Message, len(contents))
	for i, c := range contents {
		messages[i] = domain.Message{ID: uuid.NewString(), Role: domain.RoleUser, Content: c}
	}
	session, err := domain.NewChatSession(id, messages)
	require.NoError(t, err)
	return session
}

func TestChatServiceDebounceCoalescesSaves(t *testing.T) {
	svc, chats := newTestChatService(&fakeGenerator{})
	ctx := context.Background()
	userID := uuid.New()

	// Three rapid saves within the window end up as one write.
	for _, content := range []string{"a", "ab", "abc"} {
		require.NoError(t, svc.Save(ctx, userID, chatSession(t, "s1", content)))
	}

	assert.Equal(t, 0, chats.saveCount(), "nothing persisted inside the debounce window")

	assert.Eventually(t, func() bool {
		return chats.saveCount() == 1
	}, time.Second, 5*time.Millisecond)

	got, err := chats.GetByID(ctx, userID, "s1")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Messages[0].Content, "last save wins")
}

func TestChatServiceSaveDerivesTitle(t *testing.T) {
	svc, chats := newTestChatService(&fakeGenerator{})
	ctx := context.Background()
	userID := uuid.New()

	long := "a conversation opener that is noticeably longer than forty characters"
	session := chatSession(t, "s1", long)
	session.Title = "stale"
	require.NoError(t, svc.Save(ctx, userID, session))

	// The dirty snapshot already carries the derived title.
	got, err := svc.GetByID(ctx, userID, "s1")
	require.NoError(t, err)
	assert.Equal(t, []rune(long)[:domain.TitleLength], []rune(got.Title))

	assert.Eventually(t, func() bool {
		return chats.saveCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestChatServiceGetPrefersPendingSnapshot(t *testing.T) {
	svc, chats := newTestChatService(&fakeGenerator{})
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, chats.Save(ctx, userID, chatSession(t, "s1", "persisted")))
	require.NoError(t, svc.Save(ctx, userID, chatSession(t, "s1", "dirty")))

	got, err := svc.GetByID(ctx, userID, "s1")
	require.NoError(t, err)
	assert.Equal(t, "dirty", got.Messages[0].Content)
}

func TestChatServiceListFlushesPending(t *testing.T) {
	svc, chats := newTestChatService(&fakeGenerator{})
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.Save(ctx, userID, chatSession(t, "s1", "hello")))

	sessions, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 1, chats.saveCount())
}

func TestChatServiceFlushPersistsImmediately(t *testing.T) {
	svc, chats := newTestChatService(&fakeGenerator{})
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.Save(ctx, userID, chatSession(t, "s1", "hello")))
	require.NoError(t, svc.Save(ctx, userID, chatSession(t, "s2", "world")))

	svc.Flush(ctx)
	assert.Equal(t, 2, chats.saveCount())

	// Nothing left to flush; the timers were disarmed.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, chats.saveCount())
}

func TestChatServiceDeleteDropsPendingSave(t *testing.T) {
	svc, chats := newTestChatService(&fakeGenerator{})
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.Save(ctx, userID, chatSession(t, "s1", "doomed")))
	require.NoError(t, svc.Delete(ctx, userID, "s1"))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, chats.saveCount(), "pending save must not resurrect a deleted session")

	_, err := chats.GetByID(ctx, userID, "s1")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestChatServiceGenerateReply(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"Recursion is a function calling itself."}}
	svc, _ := newTestChatService(gen)

	reply, err := svc.GenerateReply(context.Background(), uuid.New(), "s1", []domain.Message{
		{ID: "1", Role: domain.RoleUser, Content: "explain recursion"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Recursion is a function calling itself.", reply)
	assert.Equal(t, []string{"explain recursion"}, gen.prompts)
}

// slowGenerator blocks until released, recording how many calls are in
// flight at once.
type slowGenerator struct {
	mu       sync.Mutex
	inFlight int
	maxSeen  int
	release  chan struct{}
}

func (g *slowGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.inFlight++
	if g.inFlight > g.maxSeen {
		g.maxSeen = g.inFlight
	}
	g.mu.Unlock()

	<-g.release

	g.mu.Lock()
	g.inFlight--
	g.mu.Unlock()
	return "ok", nil
}

func TestChatServiceSerializesGenerationPerSession(t *testing.T) {
	gen := &slowGenerator{release: make(chan struct{})}
	chats := newFakeChatStore()
	svc := NewChatService(chats, gen, slog.Default())

	userID := uuid.New()
	messages := []domain.Message{{ID: "1", Role: domain.RoleUser, Content: "hi"}}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.GenerateReply(context.Background(), userID, "s1", messages)
		}()
	}

	// Let the goroutines pile up, then drain them.
	time.Sleep(20 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	gen.mu.Lock()
	defer gen.mu.Unlock()
	assert.Equal(t, 1, gen.maxSeen, "requests for one session must not overlap")
}
