package models

import "time"

type Opportunity struct {
	ID             int64     `db:"id" gorm:"primaryKey"`
	Title          string    `db:"title" gorm:"not null"`
	Description    string    `db:"description" gorm:"type:text;not null"`
	SkillsRequired string    `db:"skills_required" gorm:"not null"`
	PostedDate     time.Time `db:"posted_date" gorm:"type:timestamptz;not null"`
}

func (Opportunity) TableName() string {
	return "opportunity"
}
