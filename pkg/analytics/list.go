package analytics

import (
	"context"
	"time"

	"github.com/rafaelruch/agendapro-analytics/pkg/apperrors"
	"github.com/rafaelruch/agendapro-analytics/pkg/models"
	"github.com/rafaelruch/agendapro-analytics/pkg/store"
)

// Conversations returns one page of the filtered conversation list,
// newest first, plus the exact total computed by the store.
func (s *Service) Conversations(ctx context.Context, conn store.ConnectionConfig, f models.Filter, page, pageSize int) (*models.PagedConversations, error) {
	start := time.Now()

	if page < 1 || pageSize < 1 {
		s.observe("list", start, apperrors.ErrInvalidPage)
		return nil, apperrors.ErrInvalidPage
	}

	src, err := s.open(ctx, conn)
	if err != nil {
		s.observe("list", start, err)
		return nil, err
	}
	items, total, err := src.ConversationsPage(ctx, f, page, pageSize)
	if err != nil {
		s.observe("list", start, err)
		return nil, err
	}

	s.observe("list", start, nil)
	return &models.PagedConversations{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
