package models

import (
	"time"

	"gorm.io/gorm"
)

// SupervisorRemark is a free-text note independent of any account or report.
type SupervisorRemark struct {
	ReportBase
	Text    string `gorm:"column:text;not null"       json:"text"`
	AddedBy string `gorm:"column:added_by;size:100"   json:"addedBy,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index"          json:"-"`
}
