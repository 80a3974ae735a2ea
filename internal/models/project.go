package models

import (
	"time"
)

// Project status values. A project is created in StatusRunning at upload time
// and moves to exactly one of the terminal states; terminal states are never
// re-entered.
const (
	StatusInit    = "init"
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// Project represents one ingestion job: a single uploaded file processed
// through the parse → persist → clean → index pipeline.
type Project struct {
	PID        string     `gorm:"column:pid;primaryKey;size:50" json:"pid"`
	Name       string     `gorm:"column:project_name;size:100;not null" json:"project_name"`
	OwnerUUID  string     `gorm:"column:uuid;size:50;not null;index" json:"uuid"`
	CleanType  string     `gorm:"size:100" json:"clean_type"`
	Status     string     `gorm:"size:20;not null;default:init" json:"status"`
	CreateTime time.Time  `gorm:"not null" json:"create_time"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	EndTime    *time.Time `json:"end_time,omitempty"`
}

// Terminal reports whether the project reached one of the end states of the
// lifecycle.
func (p *Project) Terminal() bool {
	return p.Status == StatusSuccess || p.Status == StatusFail
}

// ValidStatus reports whether status is one of the known lifecycle states.
func ValidStatus(status string) bool {
	switch status {
	case StatusInit, StatusRunning, StatusSuccess, StatusFail:
		return true
	}
	return false
}
