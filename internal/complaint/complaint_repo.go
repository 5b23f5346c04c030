package complaint

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=complaint_repo.go -destination=mock/complaint_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *Complaint) error
	FindAll(ctx context.Context) ([]Complaint, error)
	FindByAuthor(ctx context.Context, authorID string) ([]Complaint, error)
	FindByID(ctx context.Context, id string) (*Complaint, error)
	Update(ctx context.Context, c *Complaint) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn returns the query handle. When the repository is bound to a
// transaction via WithTx, every statement runs on that transaction.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, c *Complaint) error {
	return r.conn(ctx).Create(c).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Complaint, error) {
	var complaints []Complaint
	err := r.conn(ctx).
		Preload("Author").
		Preload("Assignee").
		Order("submitted_at DESC").
		Find(&complaints).Error
	return complaints, err
}

func (r *repository) FindByAuthor(ctx context.Context, authorID string) ([]Complaint, error) {
	var complaints []Complaint
	err := r.conn(ctx).
		Preload("Author").
		Preload("Assignee").
		Where("author_id = ?", authorID).
		Order("submitted_at DESC").
		Find(&complaints).Error
	return complaints, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Complaint, error) {
	var c Complaint
	err := r.conn(ctx).
		Preload("Author").
		Preload("Assignee").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) Update(ctx context.Context, c *Complaint) error {
	return r.conn(ctx).Save(c).Error
}
