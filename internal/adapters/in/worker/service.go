package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"freight/internal/adapters/out/queue"
	"freight/internal/adapters/out/rediscache"
)

// Service runs the asynq server until its context ends.
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewService(redis rediscache.Options, o queue.Options, consumer *Consumer, log *zap.Logger) *Service {
	opt, cfg := queue.BuildServerConfig(redis, o)
	if log != nil {
		cfg.Logger = log.Sugar()
	}
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{server: asynq.NewServer(opt, cfg), mux: mux}
}

func (s *Service) Run(ctx context.Context) error {
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	s.server.Shutdown()
	return nil
}
