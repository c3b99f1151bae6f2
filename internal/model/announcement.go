package model

import (
	"time"

	"github.com/google/uuid"
)

// AnnouncementKind defines who an announcement is addressed to
type AnnouncementKind string

const (
	AnnouncementKindGeneral  AnnouncementKind = "general"
	AnnouncementKindBuilding AnnouncementKind = "building"
)

// Announcement is a notice published by an administrator
type Announcement struct {
	ID           uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title        string           `json:"title" gorm:"size:200;not null"`
	Content      string           `json:"content" gorm:"type:text;not null"`
	Kind         AnnouncementKind `json:"kind" gorm:"type:varchar(20);not null"`
	BuildingName string           `json:"building_name" gorm:"size:100;default:''"` // set iff kind=building
	Scheduled    bool             `json:"scheduled" gorm:"default:false"`
	ScheduledFor *time.Time       `json:"scheduled_for,omitempty"`
	AdminID      *uuid.UUID       `json:"admin_id,omitempty" gorm:"type:uuid"`
	SentAt       *time.Time       `json:"sent_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
