package services

import (
	"context"

	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/domain/policy"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/clients/practiceapi"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/observability"
	"github.com/whitenlighten/practice-gateway/internal/query"
)

// AuditService reads the server-computed activity log. The feed is rendered
// as-is; the gateway never writes audit records.
type AuditService struct {
	api practiceapi.AuditAPI
}

// NewAuditService creates a new audit service
func NewAuditService(api practiceapi.AuditAPI) *AuditService {
	return &AuditService{api: api}
}

// ActivityFeed is a page of flattened activity entries.
type ActivityFeed struct {
	Activities []entities.Activity `json:"activities"`
	query.PageInfo
}

// RecentActivities returns the flattened activity feed. A failed fetch yields
// an empty feed, never an error.
func (s *AuditService) RecentActivities(ctx context.Context, actor entities.Actor, p query.ListParams) *ActivityFeed {
	feed := &ActivityFeed{Activities: []entities.Activity{}, PageInfo: query.EmptyPage(p)}

	if !policy.Can(actor.Role, policy.ResourceAudit, "", policy.ActionView) {
		return feed
	}

	page, err := s.api.ListAuditRecords(ctx, actor.Token, p)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("audit feed fetch failed")
		return feed
	}

	feed.PageInfo = page.PageInfo
	for i := range page.Records {
		feed.Activities = append(feed.Activities, page.Records[i].ToActivity())
	}
	return feed
}
