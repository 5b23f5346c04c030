package leave

import (
	"time"

	"staffdesk/internal/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Leave struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequesterID uuid.UUID  `gorm:"type:uuid;not null;index:idx_leaves_requester"`
	Requester   *auth.User `gorm:"foreignKey:RequesterID"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Reason    string    `gorm:"type:text;not null"`

	Status     Status     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leaves_status"`
	ReviewerID *uuid.UUID `gorm:"type:uuid"`
	Reviewer   *auth.User `gorm:"foreignKey:ReviewerID"`

	SubmittedAt time.Time `gorm:"not null"`
	DecidedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Leave) TableName() string {
	return "leaves"
}
