package models

// ApplicationStats summarizes stored applications.
type ApplicationStats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"byStatus"`
	// FollowUpsDue counts applications awaiting a reply with a follow-up
	// date on or before today.
	FollowUpsDue int `json:"followUpsDue"`
}

// NewApplicationStats returns empty stats with every status present.
func NewApplicationStats() *ApplicationStats {
	by := make(map[Status]int, len(statusOrder))
	for _, s := range statusOrder {
		by[s] = 0
	}
	return &ApplicationStats{ByStatus: by}
}

// AwaitingStatuses are the statuses still waiting on the company.
func AwaitingStatuses() []Status {
	return []Status{StatusSent, StatusPending}
}

// AwaitingReply reports whether s is one of AwaitingStatuses.
func (s Status) AwaitingReply() bool {
	return s == StatusSent || s == StatusPending
}

// FollowUpDue reports whether any of dates is on or before today.
func FollowUpDue(dates []Date, today Date) bool {
	for _, d := range dates {
		if !d.After(today) {
			return true
		}
	}
	return false
}
