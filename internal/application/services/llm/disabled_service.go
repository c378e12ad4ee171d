package llm

import (
	"context"
	"errors"

	"github.com/easayliu/video-idle-queue/internal/application/contracts"
)

var ErrServiceDisabled = errors.New("llm service is disabled")

// DisabledService LLM未配置时的空实现
type DisabledService struct{}

func NewDisabledService() *DisabledService {
	return &DisabledService{}
}

func (s *DisabledService) Enabled() bool {
	return false
}

func (s *DisabledService) GenerateArticle(ctx context.Context, req contracts.SummaryRequest) (*contracts.SummaryResult, error) {
	return nil, ErrServiceDisabled
}
