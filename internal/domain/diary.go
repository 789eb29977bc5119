package domain

import "time"

type DiaryEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	EntryDate string    `json:"entry_date"`
	CreatedAt time.Time `json:"created_at"`
}
