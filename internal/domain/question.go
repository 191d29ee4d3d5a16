package domain

import "time"

// Question is the prompt the audience raises hands for. A nil *Question means
// no question is open.
type Question struct {
	Text     string
	OpenedAt time.Time
}
