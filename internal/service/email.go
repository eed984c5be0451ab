package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"campuslink-backend/internal/logger"
)

type emailService struct {
	apiKey   string
	from     string
	fromName string
}

func NewEmailService(apiKey, from, fromName string) EmailService {
	return &emailService{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
	}
}

func (s *emailService) send(ctx context.Context, to, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "subject", subject)
	response, err := client.Send(message)
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendVerificationCode(ctx context.Context, email, code string) error {
	subject := "Your CampusLink verification code"
	plainText := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Verify your email</h2>
				<p>Your verification code is <strong>%s</strong>.</p>
				<p>It expires in 10 minutes.</p>
			</body>
		</html>
	`, code)
	return s.send(ctx, email, subject, plainText, htmlContent)
}

func (s *emailService) SendDecisionNotice(ctx context.Context, email, orgName, decision, reason string) error {
	subject := fmt.Sprintf("Application update for %s", orgName)
	plainText := fmt.Sprintf("Your application for %s has been %s.", orgName, decision)
	if reason != "" {
		plainText += fmt.Sprintf("\n\nReason: %s", reason)
	}
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Application update</h2>
				<p>Your application for <strong>%s</strong> has been <strong>%s</strong>.</p>
				<p>%s</p>
			</body>
		</html>
	`, orgName, decision, reason)
	return s.send(ctx, email, subject, plainText, htmlContent)
}
