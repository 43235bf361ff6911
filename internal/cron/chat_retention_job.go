package cron

import (
	"context"
	"fmt"

	"github.com/agroconnect/agroconnect-backend/internal/chat"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
)

type chatRetainer interface {
	ApplyRetention(ctx context.Context) (*chat.RetentionResult, error)
}

type ChatRetentionJobParams struct {
	Logger *logger.Logger
	Chat   chatRetainer
}

// NewChatRetentionJob bounds the chat room by age and by message count.
func NewChatRetentionJob(params ChatRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Chat == nil {
		return nil, fmt.Errorf("chat service required")
	}
	return &chatRetentionJob{logg: params.Logger, chat: params.Chat}, nil
}

type chatRetentionJob struct {
	logg *logger.Logger
	chat chatRetainer
}

func (j *chatRetentionJob) Name() string { return "chat_retention" }

func (j *chatRetentionJob) Run(ctx context.Context) error {
	result, err := j.chat.ApplyRetention(ctx)
	if err != nil {
		return err
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"expired": result.Expired,
		"trimmed": result.Trimmed,
	})
	j.logg.Info(logCtx, "chat retention applied")
	return nil
}
