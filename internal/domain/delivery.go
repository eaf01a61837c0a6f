package domain

import "time"

const EpubMIMEType = "application/epub+zip"

// Artifact is a generated ebook ready to be attached to an email.
type Artifact struct {
	Title    string
	Filename string
	Content  []byte
}

type UnitStatus string

const (
	UnitDelivered UnitStatus = "delivered"
	UnitFailed    UnitStatus = "failed"
	UnitLocked    UnitStatus = "locked"
)

// RunStats holds statistics about one delivery tick.
type RunStats struct {
	Candidates     int           `json:"candidates"`
	Due            int           `json:"due"`
	BelowThreshold int           `json:"below_threshold"`
	Locked         int           `json:"locked"`
	Delivered      int           `json:"delivered"`
	Failed         int           `json:"failed"`
	Skipped        int           `json:"skipped"`
	Duration       time.Duration `json:"duration"`
}

func (s *RunStats) Add(status UnitStatus) {
	switch status {
	case UnitDelivered:
		s.Delivered++
	case UnitFailed:
		s.Failed++
	case UnitLocked:
		s.Locked++
	}
}

const (
	EventDeliverySucceeded = "delivery.succeeded"
	EventDeliveryFailed    = "delivery.failed"
)

// DeliveryEvent is broadcast after an outcome has been recorded.
type DeliveryEvent struct {
	Type         string    `json:"type"`
	UserID       string    `json:"user_id"`
	ArticleCount int       `json:"article_count"`
	IssueNumber  *int      `json:"issue_number,omitempty"`
	Error        string    `json:"error,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
