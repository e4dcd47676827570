package mail

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"teamhub/internal/model"
)

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) ListPending(ctx context.Context, limit int) ([]model.MailOutbox, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MailOutbox), args.Error(1)
}

func (m *MockOutboxRepository) MarkSent(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) IncrementAttempts(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher is a mock implementation of Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishRegistration(ctx context.Context, mail RegistrationMail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

func TestDispatcher_DispatchPending(t *testing.T) {
	row := model.MailOutbox{
		ID:       11,
		UserID:   7,
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "s3cret!",
		Status:   model.OutboxPending,
	}

	t.Run("publishes and marks sent", func(t *testing.T) {
		outbox := new(MockOutboxRepository)
		pub := new(MockPublisher)

		outbox.On("ListPending", mock.Anything, dispatchBatch).Return([]model.MailOutbox{row}, nil)
		pub.On("PublishRegistration", mock.Anything, RegistrationMail{
			OutboxID: 11, UserID: 7, Name: "Ada", Email: "ada@example.com", Password: "s3cret!",
		}).Return(nil)
		outbox.On("MarkSent", mock.Anything, uint(11)).Return(nil)

		d := NewDispatcher(outbox, pub, zerolog.Nop())
		err := d.DispatchPending(context.Background())

		assert.NoError(t, err)
		outbox.AssertExpectations(t)
		pub.AssertExpectations(t)
		outbox.AssertNotCalled(t, "IncrementAttempts", mock.Anything, mock.Anything)
	})

	t.Run("publish failure bumps attempts only", func(t *testing.T) {
		outbox := new(MockOutboxRepository)
		pub := new(MockPublisher)

		outbox.On("ListPending", mock.Anything, dispatchBatch).Return([]model.MailOutbox{row}, nil)
		pub.On("PublishRegistration", mock.Anything, mock.Anything).Return(fmt.Errorf("broker down"))
		outbox.On("IncrementAttempts", mock.Anything, uint(11)).Return(nil)

		d := NewDispatcher(outbox, pub, zerolog.Nop())
		err := d.DispatchPending(context.Background())

		assert.NoError(t, err)
		outbox.AssertExpectations(t)
		outbox.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything)
	})

	t.Run("exhausted rows are marked failed without publishing", func(t *testing.T) {
		exhausted := row
		exhausted.Attempts = maxAttempts

		outbox := new(MockOutboxRepository)
		pub := new(MockPublisher)

		outbox.On("ListPending", mock.Anything, dispatchBatch).Return([]model.MailOutbox{exhausted}, nil)
		outbox.On("MarkFailed", mock.Anything, uint(11)).Return(nil)

		d := NewDispatcher(outbox, pub, zerolog.Nop())
		err := d.DispatchPending(context.Background())

		assert.NoError(t, err)
		outbox.AssertExpectations(t)
		pub.AssertNotCalled(t, "PublishRegistration", mock.Anything, mock.Anything)
	})
}
