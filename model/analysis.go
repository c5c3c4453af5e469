package model

import "time"

// Analysis is what gets persisted per analyzed upload.
type Analysis struct {
	Id          string
	FileName    string
	FileSize    int64
	Instruments []string
	Summary     Summary
	Feedback    string
	CreatedAt   time.Time
}
