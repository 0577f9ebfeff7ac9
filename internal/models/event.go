package models

import "time"

// EventStatus reflects the upstream schedule state of a bill event.
type EventStatus string

const (
	EventStatusActive EventStatus = "active"
	EventStatusMoved  EventStatus = "moved"
)

// StatusTag is the semantic style tag derived from status and revision flags.
type StatusTag string

const (
	StatusTagNormal  StatusTag = "event-normal"
	StatusTagMoved   StatusTag = "event-moved"
	StatusTagRevised StatusTag = "event-revised"
)

// BillEvent is one scheduled occurrence tied to a bill, as delivered by
// the upstream bill/schedule join. The core never mutates these rows; it
// only derives annotated copies.
type BillEvent struct {
	BillID      string      `db:"bill_id" json:"bill_id"`
	BillNumber  string      `db:"bill_number" json:"bill_number"`
	BillName    string      `db:"bill_name" json:"bill_name"`
	Status      string      `db:"status" json:"status"`
	ChamberID   Chamber     `db:"chamber_id" json:"chamber_id"`
	EventDate   string      `db:"event_date" json:"event_date"`
	EventText   *string     `db:"event_text" json:"event_text,omitempty"`
	AgendaOrder *float64    `db:"agenda_order" json:"agenda_order,omitempty"`
	EventTime   *string     `db:"event_time" json:"event_time,omitempty"`
	Location    *string     `db:"event_location" json:"event_location,omitempty"`
	Room        *string     `db:"event_room" json:"event_room,omitempty"`
	Revised     bool        `db:"revised" json:"revised"`
	EventStatus EventStatus `db:"event_status" json:"event_status"`
}

// BillEventFilter narrows the bill-event corpus fetched from storage.
type BillEventFilter struct {
	BillNumbers []string
	Chamber     *Chamber
	DateFrom    *time.Time
	DateTo      *time.Time
}
