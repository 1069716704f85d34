package menu

import "time"

type Product struct {
	ID          int64
	Name        string
	Description string
	Category    string
	Price       float64
	ImageURL    string
	Available   bool
	Additionals []Additional
	CreatedAt   time.Time
}

// Additional is an optional extra that can be attached to a product line.
type Additional struct {
	ID    int64
	Name  string
	Price float64
}
