package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/litreview/config"
	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/repository"
	"github.com/d60-Lab/litreview/internal/storage"
	"github.com/d60-Lab/litreview/internal/testutil"
)

// stepClock 每次调用前进一分钟，保证创建时间严格递增
type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

type env struct {
	clock   *stepClock
	userRep repository.UserRepository
	users   UserService
	rel     RelationshipService
	content ContentService
	vis     VisibilityResolver
	feed    FeedService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	store, err := storage.NewPhotoStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	photoRepo := repository.NewPhotoRepository(db)

	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	vis := NewVisibilityResolver(followRepo, ticketRepo, reviewRepo)
	us := NewUserService(userRepo, config.JWTConfig{Secret: "test-secret", Expire: time.Hour}).(*userService)
	us.cost = 4 // bcrypt.MinCost

	return &env{
		clock:   clock,
		userRep: userRepo,
		users:   us,
		rel:     NewRelationshipService(followRepo, userRepo),
		content: NewContentService(ticketRepo, reviewRepo, photoRepo, store, WithClock(clock.now)),
		vis:     vis,
		feed:    NewFeedService(vis, ticketRepo, reviewRepo),
	}
}

func (e *env) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Password: "x"}
	require.NoError(t, e.userRep.Create(context.Background(), u))
	return u
}

func (e *env) ticket(t *testing.T, owner *model.User, title string) *model.Ticket {
	t.Helper()
	tk, err := e.content.CreateTicket(context.Background(), owner.ID, TicketInput{Title: title})
	require.NoError(t, err)
	return tk
}

func (e *env) review(t *testing.T, author *model.User, tk *model.Ticket, rating int) *model.Review {
	t.Helper()
	rv, err := e.content.CreateReview(context.Background(), author.ID, tk.ID, ReviewInput{Rating: &rating, Headline: "headline"})
	require.NoError(t, err)
	return rv
}

func (e *env) follow(t *testing.T, follower, target *model.User) {
	t.Helper()
	_, err := e.rel.Follow(context.Background(), follower.ID, target.Username)
	require.NoError(t, err)
}

func (e *env) photo(t *testing.T, owner *model.User) *model.Photo {
	t.Helper()
	p, err := e.content.UploadPhoto(context.Background(), owner.ID, bytes.NewReader(pngBytes))
	require.NoError(t, err)
	return p
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func ids(items []model.FeedItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = string(it.Kind) + ":" + it.EntityID()
	}
	return out
}

func intPtr(v int) *int { return &v }
