package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/store"
)

// fakeGenerator returns scripted responses in order.
type fakeGenerator struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if len(g.responses) == 0 {
		return "", nil
	}
	resp := g.responses[0]
	if len(g.responses) > 1 {
		g.responses = g.responses[1:]
	}
	return resp, nil
}

// fakeChatStore is an in-memory ChatSessionStore.
type fakeChatStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]map[string]domain.ChatSession
	saves    int
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{sessions: make(map[uuid.UUID]map[string]domain.ChatSession)}
}

func (s *fakeChatStore) Save(ctx context.Context, userID uuid.UUID, session *domain.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[userID] == nil {
		s.sessions[userID] = make(map[string]domain.ChatSession)
	}
	s.sessions[userID][session.ID] = *session
	s.saves++
	return nil
}

func (s *fakeChatStore) GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID][id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return &session, nil
}

func (s *fakeChatStore) List(ctx context.Context, userID uuid.UUID) ([]domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.ChatSession
	for _, session := range s.sessions[userID] {
		out = append(out, session)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

func (s *fakeChatStore) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[userID][id]; !ok {
		return store.ErrSessionNotFound
	}
	delete(s.sessions[userID], id)
	return nil
}

func (s *fakeChatStore) Watch(ctx context.Context, userID uuid.UUID) (<-chan []domain.ChatSession, store.CancelFunc, error) {
	ch := make(chan []domain.ChatSession)
	close(ch)
	return ch, func() {}, nil
}

func (s *fakeChatStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// fakeNoteStore is an in-memory NoteStore.
type fakeNoteStore struct {
	mu    sync.Mutex
	notes map[uuid.UUID]map[string]domain.Note
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[uuid.UUID]map[string]domain.Note)}
}

func (s *fakeNoteStore) Save(ctx context.Context, userID uuid.UUID, note *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notes[userID] == nil {
		s.notes[userID] = make(map[string]domain.Note)
	}
	s.notes[userID][note.ID] = *note
	return nil
}

func (s *fakeNoteStore) GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[userID][id]
	if !ok {
		return nil, store.ErrNoteNotFound
	}
	return &note, nil
}

func (s *fakeNoteStore) List(ctx context.Context, userID uuid.UUID) ([]domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Note
	for _, note := range s.notes[userID] {
		out = append(out, note)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

func (s *fakeNoteStore) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[userID][id]; !ok {
		return store.ErrNoteNotFound
	}
	delete(s.notes[userID], id)
	return nil
}

func (s *fakeNoteStore) Watch(ctx context.Context, userID uuid.UUID) (<-chan []domain.Note, store.CancelFunc, error) {
	ch := make(chan []domain.Note)
	close(ch)
	return ch, func() {}, nil
}

// fakeQuizResultStore is an in-memory QuizResultStore. Setting createErr
// makes the next Create call fail once.
type fakeQuizResultStore struct {
	mu        sync.Mutex
	results   map[uuid.UUID][]domain.QuizResult
	createErr error
}

func newFakeQuizResultStore() *fakeQuizResultStore {
	return &fakeQuizResultStore{results: make(map[uuid.UUID][]domain.QuizResult)}
}

func (s *fakeQuizResultStore) Create(ctx context.Context, userID uuid.UUID, result *domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		err := s.createErr
		s.createErr = nil
		return err
	}
	s.results[userID] = append(s.results[userID], *result)
	return nil
}

func (s *fakeQuizResultStore) List(ctx context.Context, userID uuid.UUID) ([]domain.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]domain.QuizResult(nil), s.results[userID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

// fakeProfileStore is an in-memory ProfileStore. Setting addXPErr makes the
// next AddXP call fail once.
type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]domain.Profile
	addXPErr error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[uuid.UUID]domain.Profile)}
}

func (s *fakeProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return &profile, nil
}

func (s *fakeProfileStore) Put(ctx context.Context, userID uuid.UUID, profile *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = *profile
	return nil
}

func (s *fakeProfileStore) AddXP(ctx context.Context, userID uuid.UUID, xp, quizzes, notes int) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.addXPErr != nil {
		err := s.addXPErr
		s.addXPErr = nil
		return nil, err
	}

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	profile.AddXP(xp)
	profile.QuizzesTaken += quizzes
	profile.NotesCreated += notes
	s.profiles[userID] = profile
	return &profile, nil
}

func (s *fakeProfileStore) Watch(ctx context.Context, userID uuid.UUID) (<-chan domain.Profile, store.CancelFunc, error) {
	ch := make(chan domain.Profile)
	close(ch)
	return ch, func() {}, nil
}

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]domain.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	stored := *user
	stored.Password = ""
	s.users[user.ID] = stored
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}
