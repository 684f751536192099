package model

import "time"

// PostKind 信息流条目类型
type PostKind string

const (
	PostKindTicket PostKind = "ticket"
	PostKindReview PostKind = "review"
)

// FeedItem 信息流条目：Kind 决定 Ticket 与 Review 中哪一个有值
type FeedItem struct {
	Kind    PostKind  `json:"kind"`
	Ticket  *Ticket   `json:"ticket,omitempty"`
	Review  *Review   `json:"review,omitempty"`
	SortKey time.Time `json:"time_created"`
	// Reviewed 仅对 ticket 条目有意义：当前查看者是否已评论过
	Reviewed bool `json:"reviewed,omitempty"`
}

func TicketItem(t *Ticket) FeedItem {
	return FeedItem{Kind: PostKindTicket, Ticket: t, SortKey: t.CreatedAt}
}

func ReviewItem(r *Review) FeedItem {
	return FeedItem{Kind: PostKindReview, Review: r, SortKey: r.CreatedAt}
}

// EntityID 返回载荷实体的 ID
func (i FeedItem) EntityID() string {
	switch i.Kind {
	case PostKindTicket:
		if i.Ticket != nil {
			return i.Ticket.ID
		}
	case PostKindReview:
		if i.Review != nil {
			return i.Review.ID
		}
	}
	return ""
}
