package domain

import "time"

// SessionRecord 调用方会话记录，按 身份+来源+小时 分桶
type SessionRecord struct {
	Identity     string
	Origin       string
	CreatedAt    time.Time
	LastSeenAt   time.Time
	RequestCount int
	IsGuest      bool
}

// SessionStats 存活会话统计
type SessionStats struct {
	Total         int `json:"total_sessions"`
	Guest         int `json:"guest_sessions"`
	Authenticated int `json:"authenticated_sessions"`
}
