package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendEmailVerification(ctx context.Context, toEmail, fullName, verificationToken string) error {
	args := m.Called(ctx, toEmail, fullName, verificationToken)
	return args.Error(0)
}

func (m *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, fullName, resetToken string) error {
	args := m.Called(ctx, toEmail, fullName, resetToken)
	return args.Error(0)
}

func (m *EmailService) SendOrderReceivedEmail(ctx context.Context, toEmail, fullName, orderID string) error {
	args := m.Called(ctx, toEmail, fullName, orderID)
	return args.Error(0)
}

func (m *EmailService) SendQuoteReadyEmail(ctx context.Context, toEmail, fullName, orderID string, priceCents int64) error {
	args := m.Called(ctx, toEmail, fullName, orderID, priceCents)
	return args.Error(0)
}
