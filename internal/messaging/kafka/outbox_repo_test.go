package kafka

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOutboxRepository_CreateInTx(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	assert.NoError(t, err)

	repo := NewOutboxRepository(db)
	err = repo.WithTx(tx).Create(ctx, OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "leave",
		AggregateID:   uuid.New().String(),
		EventType:     "leave.decided",
		Topic:         "portal.leave.decided.v1",
		Payload:       []byte(`{"status":"APPROVED"}`),
		Status:        OutboxStatusPending,
	})
	assert.NoError(t, err)
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_CreateRejectsInvalidEvent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := NewOutboxRepository(db)
	err := repo.Create(context.Background(), OutboxEvent{
		ID:     uuid.New().String(),
		Topic:  "",
		Status: OutboxStatusPending,
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "an invalid event must never reach the database")
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := OutboxEvent{
		ID:      uuid.New().String(),
		Topic:   "portal.leave.decided.v1",
		Payload: []byte(`{}`),
		Status:  OutboxStatusPending,
	}
	assert.NoError(t, ValidateOutboxEvent(valid))

	missingTopic := valid
	missingTopic.Topic = ""
	assert.Error(t, ValidateOutboxEvent(missingTopic))

	badStatus := valid
	badStatus.Status = "queued"
	assert.Error(t, ValidateOutboxEvent(badStatus))
}
