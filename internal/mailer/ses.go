// internal/mailer/ses.go
package mailer

import (
	"context"
	"fmt"

	"mangotango-admin/internal/common/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the slice of the SES client used here, extracted for mocking.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESTransport sends through AWS SES.
type SESTransport struct {
	client SESAPI
	cfg    config.MailConfig
}

func NewSESTransport(ctx context.Context, cfg config.MailConfig) (*SESTransport, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.SES.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &SESTransport{client: ses.NewFromConfig(awsCfg), cfg: cfg}, nil
}

// NewSESTransportWithClient builds a transport around an existing client.
func NewSESTransportWithClient(client SESAPI, cfg config.MailConfig) *SESTransport {
	return &SESTransport{client: client, cfg: cfg}
}

func (t *SESTransport) Send(ctx context.Context, msg Message) error {
	_, err := t.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Text)},
				Html: &types.Content{Data: aws.String(msg.HTML)},
			},
		},
		Source: aws.String(fmt.Sprintf("%q <%s>", t.cfg.FromName, t.cfg.FromAddress)),
	})
	return err
}
