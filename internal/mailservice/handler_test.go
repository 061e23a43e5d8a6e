package mailservice

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSendActivationEmail(t *testing.T) {
	mockConsumer := new(MockMessageConsumer)
	mockMailer := new(MockMailer)

	ctx, cancel := context.WithCancel(context.Background())
	service := &MailService{
		mb:     mockConsumer,
		m:      mockMailer,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:    ctx,
		cancel: cancel,
	}
	defer service.Close()

	service.SendActivationEmail()

	assert.Eventually(t, mockMailer.IsCalled, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "test@example.com", mockMailer.GetEmail())
}
