package complaint

import (
	"time"

	"staffdesk/internal/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Complaint struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AuthorID uuid.UUID  `gorm:"type:uuid;not null;index:idx_complaints_author"`
	Author   *auth.User `gorm:"foreignKey:AuthorID"`

	Title       string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text;not null"`
	Category    string   `gorm:"type:varchar(100);not null"`
	Priority    Priority `gorm:"type:varchar(10);not null;default:'MEDIUM'"`

	Status     Status     `gorm:"type:varchar(20);not null;default:'OPEN';index:idx_complaints_status"`
	AssigneeID *uuid.UUID `gorm:"type:uuid"`
	Assignee   *auth.User `gorm:"foreignKey:AssigneeID"`
	Resolution *string    `gorm:"type:text"`

	SubmittedAt time.Time `gorm:"not null"`
	ResolvedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Complaint) TableName() string {
	return "complaints"
}
