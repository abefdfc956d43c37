package services

import (
	"github.com/rosterhq/roster/modules/roster/domain/aggregates/personnel"
	"github.com/rosterhq/roster/modules/roster/domain/entities/history"
)

// Topics offered to post-commit collaborators.
const (
	// TopicAuditNotification is published on the in-process bus after
	// every committed mutation. Delivery is best effort: a failed or
	// missing subscriber is logged and never retried.
	TopicAuditNotification = "roster.audit.notification"
	// TopicIdentitySync is the outbox topic for the naming-sync
	// collaborator. Messages are enqueued in the mutation's
	// transaction and relayed with independent retry.
	TopicIdentitySync = "roster.identity.sync"
)

// AuditNotification carries the committed diff and actor identity to
// notifier subscribers.
type AuditNotification struct {
	Action      history.Action
	Summary     personnel.Summary
	PerformedBy int64
	Changes     history.Diff
}

// IdentitySyncPayload is the outbox message body consumed by the
// external naming-sync collaborator.
type IdentitySyncPayload struct {
	DiscordID   int64  `json:"discord_id"`
	FullName    string `json:"full_name"`
	Static      string `json:"static"`
	Rank        string `json:"rank"`
	Subdivision string `json:"subdivision"`
	Status      string `json:"status"`
}

func identitySyncPayload(s personnel.Summary) IdentitySyncPayload {
	return IdentitySyncPayload{
		DiscordID:   s.DiscordID,
		FullName:    s.FullName(),
		Static:      s.Static,
		Rank:        s.Rank,
		Subdivision: s.Subdivision,
		Status:      string(s.Status),
	}
}
