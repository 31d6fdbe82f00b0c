package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/vietanh2810/event-api/internal/domain"
	"github.com/vietanh2810/event-api/internal/notify"
	"github.com/vietanh2810/event-api/internal/repository"
)

var errStore = errors.New("store unavailable")

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]domain.User{}}
}

func (r *fakeUserRepo) CreateBatch(_ context.Context, users []domain.User) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[string]bool{}
	for _, u := range r.users {
		seen[u.Email] = true
	}
	for _, u := range users {
		if seen[u.Email] {
			return nil, repository.ErrUserEmailExists
		}
		seen[u.Email] = true
	}

	created := make([]domain.User, 0, len(users))
	for _, u := range users {
		r.nextID++
		u.ID = r.nextID
		r.users[u.ID] = u
		created = append(created, u)
	}

	return created, nil
}

func (r *fakeUserRepo) add(first, last, email string) domain.User {
	created, _ := r.CreateBatch(context.Background(), []domain.User{{FirstName: first, LastName: last, Email: email}})

	return created[0]
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateSessionToken(_ context.Context, id uint, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.SessionToken = token
	r.users[id] = u

	return nil
}

type fakeEventRepo struct {
	mu        sync.Mutex
	events    map[uint]domain.Event
	attendees map[uint][]uint
	users     *fakeUserRepo
	nextID    uint
	updated   []domain.EventPatch
	searchErr error

	// beforeUpdate runs under the repo lock ahead of the update guard, standing in for a
	// registration that commits between the service's read and its write.
	beforeUpdate func(id uint)
}

func newFakeEventRepo(users *fakeUserRepo) *fakeEventRepo {
	return &fakeEventRepo{
		events:    map[uint]domain.Event{},
		attendees: map[uint][]uint{},
		users:     users,
	}
}

func (r *fakeEventRepo) CreateBatch(_ context.Context, events []domain.Event) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := map[string]bool{}
	for _, e := range r.events {
		names[e.Name] = true
	}
	for _, e := range events {
		if names[e.Name] {
			return nil, repository.ErrEventNameExists
		}
		names[e.Name] = true
	}

	created := make([]domain.Event, 0, len(events))
	for _, e := range events {
		r.nextID++
		e.ID = r.nextID
		r.events[e.ID] = e
		created = append(created, e)
	}

	return created, nil
}

func (r *fakeEventRepo) add(e domain.Event) domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = r.nextID
	r.events[e.ID] = e

	return e
}

func (r *fakeEventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.find(id)
}

func (r *fakeEventRepo) find(id uint) (domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	e.AttendeesCount = len(r.attendees[id])
	e.Archived = e.IsArchived()

	return e, nil
}

func (r *fakeEventRepo) Search(_ context.Context, _, _ string) ([]domain.Event, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	events := []domain.Event{}
	for id := range r.events {
		e, _ := r.find(id)
		if !e.IsArchived() {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })

	return events, nil
}

func (r *fakeEventRepo) Update(_ context.Context, id uint, patch domain.EventPatch, guard func(domain.Event) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return repository.ErrEventNotFound
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(id)
	}
	if guard != nil {
		locked, _ := r.find(id)
		if err := guard(locked); err != nil {
			return err
		}
	}
	if patch.Name != nil {
		for otherID, other := range r.events {
			if otherID != id && other.Name == *patch.Name {
				return repository.ErrEventNameExists
			}
		}
	}
	r.events[id] = patch.Apply(e)
	r.updated = append(r.updated, patch)

	return nil
}

func (r *fakeEventRepo) Archive(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return repository.ErrEventNotFound
	}
	e.CloseRegistration = domain.ArchivedCloseRegistration
	r.events[id] = e

	return nil
}

func (r *fakeEventRepo) Register(_ context.Context, eventID, userID uint, guard func(domain.Event, bool) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.find(eventID)
	if err != nil {
		return err
	}

	if err = guard(e, r.registered(eventID, userID)); err != nil {
		return err
	}
	r.attendees[eventID] = append(r.attendees[eventID], userID)

	return nil
}

func (r *fakeEventRepo) registered(eventID, userID uint) bool {
	for _, id := range r.attendees[eventID] {
		if id == userID {
			return true
		}
	}

	return false
}

func (r *fakeEventRepo) IsRegistered(_ context.Context, eventID, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registered(eventID, userID), nil
}

func (r *fakeEventRepo) FindAttendees(ctx context.Context, eventID uint) ([]domain.UserSummary, error) {
	r.mu.Lock()
	ids := append([]uint(nil), r.attendees[eventID]...)
	r.mu.Unlock()

	summaries := []domain.UserSummary{}
	for _, id := range ids {
		u, err := r.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, u.Summary())
	}

	return summaries, nil
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions map[uint]domain.Question
	voters    map[uint]map[uint]bool
	nextID    uint
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{
		questions: map[uint]domain.Question{},
		voters:    map[uint]map[uint]bool{},
	}
}

func (r *fakeQuestionRepo) Create(_ context.Context, q domain.Question) (domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	q.ID = r.nextID
	r.questions[q.ID] = q

	return q, nil
}

func (r *fakeQuestionRepo) FindByID(_ context.Context, id uint) (domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.questions[id]
	if !ok {
		return domain.Question{}, repository.ErrQuestionNotFound
	}

	return q, nil
}

func (r *fakeQuestionRepo) FindByEventID(_ context.Context, eventID uint) ([]domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	questions := []domain.Question{}
	for _, q := range r.questions {
		if q.EventID == eventID {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		if questions[i].Votes != questions[j].Votes {
			return questions[i].Votes > questions[j].Votes
		}
		return questions[i].ID < questions[j].ID
	})

	return questions, nil
}

func (r *fakeQuestionRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.questions[id]; !ok {
		return repository.ErrQuestionNotFound
	}
	delete(r.questions, id)
	delete(r.voters, id)

	return nil
}

func (r *fakeQuestionRepo) Vote(_ context.Context, questionID, userID uint) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.questions[questionID]
	if !ok {
		return 0, repository.ErrQuestionNotFound
	}
	if r.voters[questionID] == nil {
		r.voters[questionID] = map[uint]bool{}
	}
	if r.voters[questionID][userID] {
		return 0, repository.ErrAlreadyVoted
	}
	r.voters[questionID][userID] = true
	q.Votes++
	r.questions[questionID] = q

	return q.Votes, nil
}

type fakeCategoryRepo struct {
	categories []domain.Category
}

func (r fakeCategoryRepo) FindAll(context.Context) ([]domain.Category, error) {
	return r.categories, nil
}

// markFilter appends a marker so tests can see it ran. "<b>" cleans down to nothing.
type markFilter struct{}

func (markFilter) Clean(s string) string {
	if s == "<b>" {
		return ""
	}

	return s + "!"
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []notify.Message
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, msg notify.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.messages = append(p.messages, msg)

	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		types = append(types, m.Type)
	}

	return types
}
