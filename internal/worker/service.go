package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/userdesk/internal/config"
	"github.com/userdesk/internal/logger"
	"github.com/userdesk/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务，生命周期由 app.Runner 管理
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	stopOnce sync.Once
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	serverCfg.Logger = logger.S().With("component", "asynq")
	serverCfg.HealthCheckFunc = func(err error) {
		if err != nil {
			logger.Warnw("worker_redis_unhealthy", "error", err)
		}
	}
	serverCfg.ErrorHandler = asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		logger.Warnw("worker_task_failed", "task", task.Type(), "retried", retried, "error", err)
	})

	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:   "worker",
		server: asynq.NewServer(opt, serverCfg),
		mux:    mux,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动消费并阻塞到 ctx 结束，信号处理交给 Runner
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的任务完成后停止
func (s *Service) Stop(_ context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.stopOnce.Do(s.server.Shutdown)
	return nil
}
