package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

// SQSEmitter publishes setup results to an SQS queue so downstream
// processors can retry dependent setup out of band.
type SQSEmitter struct {
	client   *sqs.Client
	queueURL string
	logger   *zap.Logger
}

// NewSQSEmitter builds an emitter for the given queue URL using the default
// AWS configuration chain.
func NewSQSEmitter(ctx context.Context, queueURL string, logger *zap.Logger) (*SQSEmitter, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &SQSEmitter{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
		logger:   logger,
	}, nil
}

// EmitSetupResult sends the result to the queue. Send failures are logged
// and swallowed; the side channel must never fail a registration.
func (e *SQSEmitter) EmitSetupResult(ctx context.Context, result SetupResult) {
	body, err := json.Marshal(result)
	if err != nil {
		e.logger.Error("Failed to marshal setup result", zap.Error(err))
		return
	}

	_, err = e.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(e.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		e.logger.Error("Failed to publish setup result",
			zap.String("queue_url", e.queueURL),
			zap.String("user_id", result.UserID),
			zap.Error(err))
		return
	}

	e.logger.Debug("Published setup result",
		zap.String("user_id", result.UserID),
		zap.Bool("succeeded", result.Succeeded))
}
