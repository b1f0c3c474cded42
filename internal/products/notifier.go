package products

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"kalastra-backend/internal/common/config"
	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/models"
)

// Interfaces over the AWS clients so tests can mock them.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier tells the artisan their listing went live, by email and SMS
// depending on configuration and on which contact details exist. Recipient
// contact comes from the artisans table; a missing artisan downgrades the
// notification to a log line.
type Notifier struct {
	db     *sql.DB
	config *config.NotificationConfig
	logger logger.Logger

	sesClient SESService
	snsClient SNSService
}

func NewNotifier(db *sql.DB, cfg *config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		db:        db,
		config:    cfg,
		logger:    log,
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

// ListingPublished sends the listing-published notification. Each channel
// fails independently; the first error is returned after both are attempted.
func (n *Notifier) ListingPublished(ctx context.Context, product *models.Product) error {
	email, phone, err := n.artisanContact(ctx, product.ArtisanID)
	if err != nil {
		n.logger.Warn("artisan contact not found, skipping notification", map[string]interface{}{
			"artisanId": product.ArtisanID,
			"productId": product.ID,
		})
		return nil
	}

	var firstErr error

	if n.config.Email.Enabled && email != "" {
		if err := n.sendEmail(ctx, email, product); err != nil {
			firstErr = err
		}
	}

	if n.config.SMS.Enabled && phone != "" {
		if err := n.sendSMS(ctx, phone, product); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (n *Notifier) artisanContact(ctx context.Context, artisanID string) (email, phone string, err error) {
	if artisanID == "" {
		return "", "", sql.ErrNoRows
	}
	err = n.db.QueryRowContext(ctx,
		"SELECT email, phone FROM artisans WHERE id = $1", artisanID).
		Scan(&email, &phone)
	return email, phone, err
}

func (n *Notifier) sendEmail(ctx context.Context, to string, product *models.Product) error {
	subject := fmt.Sprintf("Your listing %q is live", product.Title)
	body := fmt.Sprintf(
		"Hi,\n\nYour listing %q has been published on Kalastra.\n\nPrice: %.2f\n\nThe Kalastra team",
		product.Title, product.Price,
	)

	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(n.config.Email.FromEmail),
		Destination: &sestypes.Destination{ToAddresses: []string{to}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send listing email: %w", err)
	}

	n.logger.Info("listing email sent", map[string]interface{}{"productId": product.ID})
	return nil
}

func (n *Notifier) sendSMS(ctx context.Context, phone string, product *models.Product) error {
	message := fmt.Sprintf("Kalastra: your listing %q is now live.", product.Title)

	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("send listing sms: %w", err)
	}

	n.logger.Info("listing sms sent", map[string]interface{}{"productId": product.ID})
	return nil
}
