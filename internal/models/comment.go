package models

import "time"

// Comment represents a reader comment stored in the komentar table.
type Comment struct {
	ID         int64     `db:"id" json:"id"`
	ArticleID  int64     `db:"berita_id" json:"berita_id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	ParentID   *int64    `db:"parent_id" json:"parent_id,omitempty"`
	Content    string    `db:"konten" json:"konten"`
	IsApproved bool      `db:"is_approved" json:"is_approved"`
	IsReported bool      `db:"is_reported" json:"is_reported"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	UserName   *string `db:"user_name" json:"user_name,omitempty"`
	UserAvatar *string `db:"user_avatar" json:"user_avatar,omitempty"`
}

// CommentFilter captures filtering criteria for listing comments.
type CommentFilter struct {
	ArticleID  *int64
	UserID     *int64
	IsApproved *bool
	Page       int
	Limit      int
	SortOrder  string
}
