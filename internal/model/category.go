package model

import "time"

// Category is a transaction category. System taxonomy entries ship with the
// application; custom entries are user-defined and layered on top.
type Category struct {
	CreatedAt time.Time
	Name      string
	Icon      string
	Color     string
	Type      TransactionType
	IsCustom  bool
}
