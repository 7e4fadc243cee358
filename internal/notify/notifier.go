// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	apperrors "eligibility-engine/internal/common/errors"
	"eligibility-engine/internal/common/logger"
	"eligibility-engine/internal/eligibility"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Config controls where manual-review alerts go.
type Config struct {
	AWSRegion   string
	SenderEmail string
	OpsEmail    string
	SNSTopicARN string
}

// Notifier alerts the operations inbox when a review ends without a
// decision, so a human can follow up with the applicant.
type Notifier struct {
	config    *Config
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
}

func NewNotifier(ctx context.Context, config *Config, log logger.Logger) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Notifier{
		config:    config,
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
		logger: log.With(map[string]interface{}{
			"component": "notify",
		}),
	}, nil
}

// NotifyManualReview raises an alert for a CANNOT_DETERMINE verdict.
// Verdicts that settled on their own are ignored.
func (n *Notifier) NotifyManualReview(ctx context.Context, st *eligibility.State) error {
	if st.FinalResult != eligibility.ResultCannotDetermine {
		return nil
	}

	subject := fmt.Sprintf("Eligibility review needed: session %s", st.SessionID)
	body := fmt.Sprintf(
		"Session %s (policy %d) finished without a decision.\n\nReason: %s\n\nExtra requirements: %s\n",
		st.SessionID, st.PolicyID, st.Reason, st.ExtraRequirements,
	)

	emailSent := false
	if n.config.OpsEmail != "" {
		if err := n.sendEmail(ctx, subject, body); err != nil {
			n.logger.Error("ops email send failed", map[string]interface{}{
				"session_id": st.SessionID,
				"error":      err.Error(),
			})
			return apperrors.NewNotificationSendFailedError("email", err)
		}
		emailSent = true
	}

	if n.config.SNSTopicARN != "" {
		if err := n.publish(ctx, subject, body); err != nil {
			n.logger.Error("SNS publish failed", map[string]interface{}{
				"session_id": st.SessionID,
				"error":      err.Error(),
			})
			if !emailSent {
				return apperrors.NewNotificationSendFailedError("sns", err)
			}
		}
	}

	n.logger.Info("manual review alert sent", map[string]interface{}{
		"session_id": st.SessionID,
	})
	return nil
}

func (n *Notifier) sendEmail(ctx context.Context, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{n.config.OpsEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.SenderEmail),
	})
	return err
}

func (n *Notifier) publish(ctx context.Context, subject, body string) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.SNSTopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	return err
}
