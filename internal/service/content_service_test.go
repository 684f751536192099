package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/litreview/internal/repository"
)

func TestContentService_RatingBounds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob, carol, dave := e.user(t, "alice"), e.user(t, "bob"), e.user(t, "carol"), e.user(t, "dave")
	tk := e.ticket(t, alice, "Dune")

	_, err := e.content.CreateReview(ctx, bob.ID, tk.ID, ReviewInput{Rating: intPtr(6), Headline: "too good"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "rating", ve.Fields[0].Field)

	_, err = e.content.CreateReview(ctx, bob.ID, tk.ID, ReviewInput{Rating: intPtr(-1), Headline: "bad"})
	assert.ErrorAs(t, err, &ve)

	_, err = e.content.CreateReview(ctx, carol.ID, tk.ID, ReviewInput{Rating: intPtr(0), Headline: "meh"})
	assert.NoError(t, err)
	_, err = e.content.CreateReview(ctx, dave.ID, tk.ID, ReviewInput{Rating: intPtr(5), Headline: "great"})
	assert.NoError(t, err)
}

func TestContentService_ReviewValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	tk := e.ticket(t, alice, "Dune")

	_, err := e.content.CreateReview(ctx, alice.ID, tk.ID, ReviewInput{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	fields := map[string]bool{}
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["rating"])
	assert.True(t, fields["headline"])

	_, err = e.content.CreateReview(ctx, alice.ID, tk.ID, ReviewInput{
		Rating: intPtr(3), Headline: "ok", Body: strings.Repeat("x", 8193),
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "body", ve.Fields[0].Field)
}

func TestContentService_TicketValidationAndSanitizing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")

	_, err := e.content.CreateTicket(ctx, alice.ID, TicketInput{Title: "<b></b>"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Fields[0].Field)

	// 实体编码的脚本解码后同样被剥离
	_, err = e.content.CreateTicket(ctx, alice.ID, TicketInput{Title: "&lt;script&gt;alert(1)&lt;/script&gt;"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Fields[0].Field)

	encoded, err := e.content.CreateTicket(ctx, alice.ID, TicketInput{
		Title:       "&lt;b&gt;Dune&lt;/b&gt;",
		Description: "&amp;lt;img src=x onerror=alert(1)&amp;gt;sand",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune", encoded.Title)
	assert.Equal(t, "sand", encoded.Description)
	assert.NotContains(t, encoded.Title, "<")
	assert.NotContains(t, encoded.Description, "<")

	_, err = e.content.CreateTicket(ctx, alice.ID, TicketInput{Title: strings.Repeat("é", 129)})
	assert.ErrorAs(t, err, &ve)

	author := "<i>Frank Herbert</i>"
	tk, err := e.content.CreateTicket(ctx, alice.ID, TicketInput{
		Title:       "<script>alert(1)</script>Dune",
		Author:      &author,
		Description: "Spice & sand",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune", tk.Title)
	require.NotNil(t, tk.Author)
	assert.Equal(t, "Frank Herbert", *tk.Author)
	assert.Equal(t, "Spice & sand", tk.Description)
	require.NotNil(t, tk.User)
	assert.Equal(t, "alice", tk.User.Username)
}

func TestContentService_OwnershipChecks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob := e.user(t, "alice"), e.user(t, "bob")
	tk := e.ticket(t, alice, "Dune")
	rv := e.review(t, bob, tk, 4)

	_, err := e.content.UpdateTicket(ctx, bob.ID, tk.ID, TicketInput{Title: "mine now"})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, e.content.DeleteTicket(ctx, bob.ID, tk.ID), ErrNotOwner)

	_, err = e.content.UpdateReview(ctx, alice.ID, rv.ID, ReviewInput{Rating: intPtr(0), Headline: "nope"})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, e.content.DeleteReview(ctx, alice.ID, rv.ID), ErrNotOwner)

	updated, err := e.content.UpdateTicket(ctx, alice.ID, tk.ID, TicketInput{Title: "Dune Messiah"})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.True(t, updated.CreatedAt.Equal(tk.CreatedAt))

	updatedReview, err := e.content.UpdateReview(ctx, bob.ID, rv.ID, ReviewInput{Rating: intPtr(2), Headline: "weaker"})
	require.NoError(t, err)
	assert.Equal(t, 2, updatedReview.Rating)

	require.NoError(t, e.content.DeleteReview(ctx, bob.ID, rv.ID))
	_, err = e.content.GetReview(ctx, rv.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestContentService_NotFound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")

	_, err := e.content.GetTicket(ctx, "missing")
	assert.ErrorIs(t, err, ErrTicketNotFound)
	_, err = e.content.CreateReview(ctx, alice.ID, "missing", ReviewInput{Rating: intPtr(1), Headline: "h"})
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.ErrorIs(t, e.content.DeleteReview(ctx, alice.ID, "missing"), ErrReviewNotFound)
	assert.ErrorIs(t, e.content.DeletePhoto(ctx, alice.ID, "missing"), ErrPhotoNotFound)

	missing := "missing"
	_, err = e.content.CreateTicket(ctx, alice.ID, TicketInput{Title: "t", PhotoID: &missing})
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestContentService_AlreadyReviewed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob := e.user(t, "alice"), e.user(t, "bob")
	tk := e.ticket(t, alice, "Dune")
	e.review(t, bob, tk, 4)

	_, err := e.content.CreateReview(ctx, bob.ID, tk.ID, ReviewInput{Rating: intPtr(1), Headline: "again"})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestContentService_DeleteTicketCascades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob := e.user(t, "alice"), e.user(t, "bob")
	tk := e.ticket(t, alice, "Dune")
	rv := e.review(t, bob, tk, 4)

	require.NoError(t, e.content.DeleteTicket(ctx, alice.ID, tk.ID))

	_, err := e.content.GetTicket(ctx, tk.ID)
	assert.ErrorIs(t, err, ErrTicketNotFound)
	_, err = e.content.GetReview(ctx, rv.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	reviews, err := e.content.ListReviews(ctx, repository.ReviewFilter{TicketID: tk.ID})
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestContentService_Photos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob := e.user(t, "alice"), e.user(t, "bob")

	p := e.photo(t, alice)
	assert.True(t, strings.HasSuffix(p.Image, ".png"))

	// 不能引用别人的图片
	_, err := e.content.CreateTicket(ctx, bob.ID, TicketInput{Title: "borrowed", PhotoID: &p.ID})
	assert.ErrorIs(t, err, ErrNotOwner)

	tk, err := e.content.CreateTicket(ctx, alice.ID, TicketInput{Title: "with cover", PhotoID: &p.ID})
	require.NoError(t, err)
	require.NotNil(t, tk.Photo)
	assert.Equal(t, p.Image, tk.Photo.Image)

	assert.ErrorIs(t, e.content.DeletePhoto(ctx, bob.ID, p.ID), ErrNotOwner)
	require.NoError(t, e.content.DeletePhoto(ctx, alice.ID, p.ID))

	tk, err = e.content.GetTicket(ctx, tk.ID)
	require.NoError(t, err)
	assert.Nil(t, tk.PhotoID)

	_, err = e.content.UploadPhoto(ctx, alice.ID, strings.NewReader("plain text"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "image", ve.Fields[0].Field)
}

func TestContentService_CreateTicketWithReview(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")

	// 两份输入都无效：一个都不写入，错误里包含两边的字段
	_, _, err := e.content.CreateTicketWithReview(ctx, alice.ID, TicketInput{}, ReviewInput{Rating: intPtr(9)})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.GreaterOrEqual(t, len(ve.Fields), 3)

	// 仅评论无效：同样不写入 Ticket
	_, _, err = e.content.CreateTicketWithReview(ctx, alice.ID, TicketInput{Title: "Dune"}, ReviewInput{Rating: intPtr(9), Headline: "h"})
	require.ErrorAs(t, err, &ve)
	tickets, err := e.content.ListTickets(ctx, repository.TicketFilter{})
	require.NoError(t, err)
	assert.Empty(t, tickets)

	tk, rv, err := e.content.CreateTicketWithReview(ctx, alice.ID,
		TicketInput{Title: "Dune"},
		ReviewInput{Rating: intPtr(5), Headline: "classic"})
	require.NoError(t, err)
	assert.Equal(t, tk.ID, rv.TicketID)
	assert.Equal(t, alice.ID, rv.UserID)
}
