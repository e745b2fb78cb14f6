package models

import "time"

// Session is the model for the 'sessions' table. Session numbers start at 1
// per customer and are never reused. EndTime stays NULL until logout.
type Session struct {
	CustomerID int64      `json:"customerId" db:"cid"`
	SessionNo  int        `json:"sessionNo" db:"session_no"`
	StartTime  time.Time  `json:"startTime" db:"start_time"`
	EndTime    *time.Time `json:"endTime,omitempty" db:"end_time"`
}
