package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"gopkg.in/gomail.v2"
)

type sesAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer sends email through AWS SES.
type SESMailer struct {
	ses  sesAPI
	from string
}

func NewSESMailer(ctx context.Context, region, from string) (*SESMailer, error) {
	if from == "" {
		return nil, fmt.Errorf("ses: %w: EMAIL_FROM is not set", ErrNotConfigured)
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("ses: load aws config: %w", err)
	}
	return &SESMailer{ses: ses.NewFromConfig(cfg), from: from}, nil
}

func (m *SESMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	_, err := m.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
		Source: aws.String(m.from),
	})
	if err != nil {
		return fmt.Errorf("%w: ses send: %v", ErrUpstream, err)
	}
	return nil
}

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends email over SMTP, dialing once per message.
type SMTPMailer struct {
	dialer mailDialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) (*SMTPMailer, error) {
	if host == "" || from == "" {
		return nil, fmt.Errorf("smtp: %w: SMTP_HOST and EMAIL_FROM are required", ErrNotConfigured)
	}
	var d *gomail.Dialer
	if username == "" {
		d = &gomail.Dialer{Host: host, Port: port}
	} else {
		d = gomail.NewDialer(host, port, username, password)
	}
	return &SMTPMailer{dialer: d, from: from}, nil
}

func (m *SMTPMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("%w: smtp send: %v", ErrUpstream, err)
	}
	return nil
}
