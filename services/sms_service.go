package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

var e164 = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

type snsAPI interface {
	Publish(ctx context.Context, in *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

// SMSService sends text messages through AWS SNS.
type SMSService struct {
	sns      snsAPI
	senderID string
}

func NewSMSService(ctx context.Context, region, senderID string) (*SMSService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("sms: load aws config: %w", err)
	}
	return &SMSService{sns: awssns.NewFromConfig(cfg), senderID: senderID}, nil
}

// SendSMS publishes a transactional SMS and returns the SNS message id.
func (s *SMSService) SendSMS(ctx context.Context, phone, message string) (string, error) {
	if !e164.MatchString(phone) {
		return "", errors.New("phone number must be in E.164 format")
	}

	attrs := map[string]snstypes.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if s.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.senderID),
		}
	}

	out, err := s.sns.Publish(ctx, &awssns.PublishInput{
		PhoneNumber:       aws.String(phone),
		Message:           aws.String(message),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", fmt.Errorf("%w: sns publish: %v", ErrUpstream, err)
	}
	return aws.ToString(out.MessageId), nil
}
