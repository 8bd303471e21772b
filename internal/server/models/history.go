// Package models defines the server-side records of ScanKeeper.
package models

import "time"

// HistoryItem is one scan or generation event pushed by a device. The pair
// (DeviceID, ID) is unique.
type HistoryItem struct {
	DeviceID    string    `db:"device_id"`
	ID          string    `db:"id"`
	RawText     string    `db:"raw_text"`
	DisplayType string    `db:"display_type"`
	Kind        string    `db:"kind"`
	Symbology   string    `db:"symbology"`
	Source      string    `db:"source"`
	CreatedAt   time.Time `db:"created_at"`
	ReceivedAt  time.Time `db:"received_at"`
}
