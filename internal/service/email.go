package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/sirupsen/logrus"
)

// EmailService sends invitation mail via Amazon SES. When no sender address
// is configured the service runs disabled and sends are silently skipped,
// which keeps local development working without AWS credentials.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	log        *logrus.Logger
}

// NewEmailService creates a new email service
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, log *logrus.Logger) (*EmailService, error) {
	if fromEmail == "" {
		log.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, log: log}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.WithFields(logrus.Fields{"from": fromEmail, "region": awsRegion}).Info("email service enabled")

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		log:        log,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendInvitationEmail notifies an invitee that they have been added to a
// family's pending invitations.
func (s *EmailService) SendInvitationEmail(ctx context.Context, toEmail, familyName, inviterName string) error {
	if !s.enabled {
		s.log.WithField("to", toEmail).Debug("skipping invitation email, service disabled")
		return nil
	}

	subject := fmt.Sprintf("%s invited you to join %s on CareShare", inviterName, familyName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>You're invited to CareShare</h2>
	<p>%s has invited you to join the family group <strong>%s</strong> to help coordinate care.</p>
	<p><a href="%s" style="display:inline-block;padding:12px 30px;background:#4a90e2;color:#fff;text-decoration:none;border-radius:5px;">Open CareShare</a></p>
	<p style="font-size:12px;color:#666;">If you weren't expecting this invitation you can ignore this email.</p>
</body>
</html>`, inviterName, familyName, s.appBaseURL)

	textBody := fmt.Sprintf("%s has invited you to join %s on CareShare. Visit %s to get started.",
		inviterName, familyName, s.appBaseURL)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody)},
					Text: &types.Content{Data: aws.String(textBody)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send invitation email to %s: %w", toEmail, err)
	}

	s.log.WithField("to", toEmail).Info("invitation email sent")
	return nil
}
