package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// auditAdapter wraps ServiceContainer for type-safe cross-module calls.
type auditAdapter struct {
	container mono.ServiceContainer
}

// NewAuditAdapter creates an adapter for audit services.
func NewAuditAdapter(container mono.ServiceContainer) AuditPort {
	if container == nil {
		panic("audit adapter requires non-nil ServiceContainer")
	}
	return &auditAdapter{container: container}
}

// Trail fetches recent audit entries via the trail service.
func (a *auditAdapter) Trail(ctx context.Context, req *TrailRequest) (*TrailResponse, error) {
	var resp TrailResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"trail",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("trail service call failed: %w", err)
	}
	return &resp, nil
}
