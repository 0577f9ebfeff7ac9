package models

import "time"

// Bookmark marks a bill a user is tracking.
type Bookmark struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	BillID    string    `db:"bill_id" json:"bill_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BookmarkedBill joins a bookmark with its bill metadata for list views.
type BookmarkedBill struct {
	Bookmark
	BillNumber string `db:"bill_number" json:"bill_number"`
	BillName   string `db:"bill_name" json:"bill_name"`
	BillStatus string `db:"status" json:"status"`
}
