package models

import "time"

// Channel represents an institution-owned publishing outlet stored in
// the kanal_instansi table. Articles can optionally be attributed to one.
type Channel struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"nama" json:"nama"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"deskripsi" json:"deskripsi,omitempty"`
	LogoURL     *string   `db:"logo_url" json:"logo_url,omitempty"`
	OwnerID     int64     `db:"user_id" json:"user_id"`
	IsVerified  bool      `db:"is_verified" json:"is_verified"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	OwnerName *string `db:"owner_name" json:"owner_name,omitempty"`
}

// ChannelFilter captures filtering criteria for listing channels.
type ChannelFilter struct {
	Search     string
	OwnerID    *int64
	IsVerified *bool
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}
