package models

import "time"

// Notification уведомление в приложении. Хранятся только непрочитанные.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Unread    bool      `json:"unread"`
	CreatedAt time.Time `json:"createdAt"`
}

// MarkReadRequest тело запроса на прочтение одного уведомления.
type MarkReadRequest struct {
	ID string `json:"id" validate:"required"`
}
