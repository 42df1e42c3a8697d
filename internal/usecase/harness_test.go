package usecase

import (
	"context"
	"testing"
	"time"

	"postboard/internal/aggregate"
	"postboard/internal/entity"
	"postboard/internal/integrity"
	"postboard/internal/repo/persistent"
	"postboard/pkg/logger"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type harness struct {
	users   persistent.UserRepository
	posts   persistent.PostRepository
	storage *memoryStorage
	events  *recordingPublisher
	post    *postUseCase
	admin   AdminUseCase
	user    UserUseCase
	clock   time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := newTestDB(t)
	log := logger.Discard()
	h := &harness{
		users:   persistent.NewUserRepository(db),
		posts:   persistent.NewPostRepository(db),
		storage: newMemoryStorage(),
		events:  &recordingPublisher{},
		clock:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	layer := integrity.NewLayer(h.posts, h.users, log)
	enricher := aggregate.NewEnricher(h.users)

	h.post = NewPostUseCase(h.posts, h.users, layer, enricher, h.storage, h.events, log).(*postUseCase)
	h.post.now = h.tick
	h.admin = NewAdminUseCase(h.users, h.posts, layer, enricher, h.storage, h.events, log)
	h.user = NewUserUseCase(h.users, h.storage, log)
	return h
}

// tick advances the fake clock so posts created in sequence are ordered.
func (h *harness) tick() time.Time {
	h.clock = h.clock.Add(time.Second)
	return h.clock
}

func (h *harness) createUser(t *testing.T, name, email, role string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &entity.User{Name: name, Email: email, Password: string(hash), Role: role}
	require.NoError(t, h.users.Create(context.Background(), u))
	return u
}

func (h *harness) createPost(t *testing.T, owner *entity.User, in CreatePostInput) *entity.Post {
	t.Helper()
	p, err := h.post.CreatePost(context.Background(), owner.ID, in)
	require.NoError(t, err)

	// keep created_at strictly increasing for ordering assertions
	time.Sleep(2 * time.Millisecond)
	return p
}

func viewer(u *entity.User) entity.Viewer {
	return entity.Viewer{ID: u.ID, Role: u.Role}
}
