package dispenser

import (
	"strconv"
	"time"
)

// LabelPrefix starts every token label.
const LabelPrefix = "T-"

// Token is the waiting-room handle handed to a customer.
// The label is its identity; tokens are never mutated once issued.
type Token struct {
	Label    string    `json:"label"`
	Number   uint64    `json:"number"`
	IssuedAt time.Time `json:"issued_at"`
}

func (t Token) String() string { return t.Label }

// FormatLabel renders the label for sequence number n.
func FormatLabel(n uint64) string {
	return LabelPrefix + strconv.FormatUint(n, 10)
}

// Stats is a consistent view of the dispenser taken under one lock.
type Stats struct {
	Waiting     int    `json:"waiting"`
	Capacity    int    `json:"capacity"`
	TotalIssued uint64 `json:"total_issued"`
	TotalServed uint64 `json:"total_served"`
	NowServing  *Token `json:"now_serving"`
	Next        *Token `json:"next"`
}
