package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/testutil"
)

type contentRepos struct {
	db      *gorm.DB
	users   UserRepository
	photos  PhotoRepository
	tickets TicketRepository
	reviews ReviewRepository
}

func newContentRepos(t *testing.T) contentRepos {
	db := testutil.NewDB(t)
	return contentRepos{
		db:      db,
		users:   NewUserRepository(db),
		photos:  NewPhotoRepository(db),
		tickets: NewTicketRepository(db),
		reviews: NewReviewRepository(db),
	}
}

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func (r contentRepos) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Password: "x"}
	require.NoError(t, r.users.Create(context.Background(), u))
	return u
}

func (r contentRepos) ticket(t *testing.T, owner *model.User, title string, at time.Time) *model.Ticket {
	t.Helper()
	tk := &model.Ticket{Title: title, UserID: owner.ID, CreatedAt: at}
	require.NoError(t, r.tickets.Create(context.Background(), tk))
	return tk
}

func (r contentRepos) review(t *testing.T, author *model.User, tk *model.Ticket, at time.Time) *model.Review {
	t.Helper()
	rv := &model.Review{TicketID: tk.ID, UserID: author.ID, Rating: 4, Headline: "h", CreatedAt: at}
	require.NoError(t, r.reviews.Create(context.Background(), rv))
	return rv
}

func TestUserRepository(t *testing.T) {
	r := newContentRepos(t)
	ctx := context.Background()

	alice := r.user(t, "alice")
	bob := r.user(t, "bob")
	assert.NotEmpty(t, alice.ID)

	assert.ErrorIs(t, r.users.Create(ctx, &model.User{Username: "alice", Password: "y"}), ErrDuplicate)

	got, err := r.users.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)

	_, err = r.users.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := r.users.FindByIDs(ctx, []string{bob.ID, alice.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, "bob", list[1].Username)

	list, err = r.users.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTicketRepository_ListOrderAndFilter(t *testing.T) {
	r := newContentRepos(t)
	ctx := context.Background()
	alice, bob := r.user(t, "alice"), r.user(t, "bob")

	t1 := r.ticket(t, alice, "first", base)
	t2 := r.ticket(t, bob, "second", base.Add(time.Minute))
	t3 := r.ticket(t, alice, "third", base.Add(2*time.Minute))

	all, err := r.tickets.List(ctx, TicketFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{t3.ID, t2.ID, t1.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
	require.NotNil(t, all[0].User)
	assert.Equal(t, "alice", all[0].User.Username)

	mine, err := r.tickets.List(ctx, TicketFilter{UserIDs: []string{alice.ID}})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := r.tickets.List(ctx, TicketFilter{UserIDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTicketRepository_Update(t *testing.T) {
	r := newContentRepos(t)
	ctx := context.Background()
	alice := r.user(t, "alice")
	tk := r.ticket(t, alice, "draft", base)

	author := "Ursula K. Le Guin"
	tk.Title = "The Dispossessed"
	tk.Author = &author
	require.NoError(t, r.tickets.Update(ctx, tk))

	got, err := r.tickets.FindByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Dispossessed", got.Title)
	require.NotNil(t, got.Author)
	assert.Equal(t, author, *got.Author)
	assert.True(t, got.CreatedAt.Equal(base), "created_at must not change on update")

	assert.ErrorIs(t, r.tickets.Update(ctx, &model.Ticket{ID: "missing", Title: "x"}), ErrNotFound)
}

func TestTicketRepository_DeleteCascadesReviews(t *testing.T) {
	r := newContentRepos(t)
	ctx := context.Background()
	alice, bob := r.user(t, "alice"), r.user(t, "bob")

	tk := r.ticket(t, alice, "doomed", base)
	other := r.ticket(t, alice, "kept", base)
	rv := r.review(t, bob, tk, base.Add(time.Minute))
	kept := r.review(t, bob, other, base.Add(time.Minute))

	require.NoError(t, r.tickets.Delete(ctx, tk.ID))

	_, err := r.tickets.FindByID(ctx, tk.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.reviews.FindByID(ctx, rv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.reviews.FindByID(ctx, kept.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, r.tickets.Delete(ctx, tk.ID), ErrNotFound)
}

func TestPhotoRepository_DeleteDetachesTickets(t *testing.T) {
	r := newContentRepos(t)
	ctx := context.Background()
	alice := r.user(t, "alice")

	p := &model.Photo{Image: "ab/cdef.png", UploaderID: alice.ID}
	require.NoError(t, r.photos.Create(ctx, p))
	tk := &model.Ticket{Title: "with cover", UserID: alice.ID, PhotoID: &p.ID}
	require.NoError(t, r.tickets.Create(ctx, tk))

	got, err := r.tickets.FindByID(ctx, tk.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Photo)
	assert.Equal(t, "ab/cdef.png", got.Photo.Image)

	require.NoError(t, r.photos.Delete(ctx, p.ID))

	got, err = r.tickets.FindByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PhotoID)
	assert.Nil(t, got.Photo)

	assert.ErrorIs(t, r.photos.Delete(ctx, p.ID), ErrNotFound)
}

func TestReviewRepository_OnePerUserPerTicket(t *testing.T) {
	r := newContentRepos(t)
	ctx := context.Background()
	alice, bob := r.user(t, "alice"), r.user(t, "bob")
	tk := r.ticket(t, alice, "t", base)

	r.review(t, bob, tk, base)
	err := r.reviews.Create(ctx, &model.Review{TicketID: tk.ID, UserID: bob.ID, Rating: 1, Headline: "again"})
	assert.ErrorIs(t, err, ErrDuplicate)

	list, err := r.reviews.List(ctx, ReviewFilter{TicketID: tk.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReviewRepository_UpdateAndDelete(t *testing.T) {
	r := newContentRepos(t)
	ctx := context.Background()
	alice := r.user(t, "alice")
	tk := r.ticket(t, alice, "t", base)
	rv := r.review(t, alice, tk, base)

	rv.Rating = 0
	rv.Headline = "changed my mind"
	require.NoError(t, r.reviews.Update(ctx, rv))

	got, err := r.reviews.FindByID(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Rating)
	assert.Equal(t, "changed my mind", got.Headline)
	require.NotNil(t, got.Ticket)
	require.NotNil(t, got.Ticket.User)
	assert.Equal(t, "alice", got.Ticket.User.Username)

	require.NoError(t, r.reviews.Delete(ctx, rv.ID))
	assert.ErrorIs(t, r.reviews.Delete(ctx, rv.ID), ErrNotFound)
}

func TestReviewRepository_ListVisible(t *testing.T) {
	r := newContentRepos(t)
	ctx := context.Background()
	alice, bob, carol, dave := r.user(t, "alice"), r.user(t, "bob"), r.user(t, "carol"), r.user(t, "dave")

	aliceTicket := r.ticket(t, alice, "alice's", base)
	bobTicket := r.ticket(t, bob, "bob's", base)
	daveTicket := r.ticket(t, dave, "dave's", base)

	onAlice := r.review(t, carol, aliceTicket, base.Add(1*time.Minute))
	byAlice := r.review(t, alice, daveTicket, base.Add(2*time.Minute))
	onBob := r.review(t, carol, bobTicket, base.Add(3*time.Minute))
	r.review(t, carol, daveTicket, base.Add(4*time.Minute))

	// alice 关注 bob：自己写的 + 自己 Ticket 上的 + bob Ticket 上的
	got, err := r.reviews.ListVisible(ctx, alice.ID, []string{alice.ID, bob.ID})
	require.NoError(t, err)
	ids := make([]string, len(got))
	for i, rv := range got {
		ids[i] = rv.ID
	}
	assert.Equal(t, []string{onBob.ID, byAlice.ID, onAlice.ID}, ids)

	// 不关注任何人
	got, err = r.reviews.ListVisible(ctx, alice.ID, []string{alice.ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = r.reviews.ListVisible(ctx, carol.ID, nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
