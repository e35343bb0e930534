package dto

type NotificationFilter struct {
	UnreadOnly bool `query:"unread"`
	Limit      int  `query:"limit"`
}
