// Package outbox wires the roster's outbox topics to their external
// collaborators.
package outbox

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/rosterhq/roster/modules/roster/services"
	pkgoutbox "github.com/rosterhq/roster/pkg/outbox"
)

// NameSyncer is the external naming-sync collaborator. The relay calls
// it with independent retry; a returned error nacks the message.
type NameSyncer interface {
	SyncName(ctx context.Context, payload services.IdentitySyncPayload) error
}

// IdentitySyncHandler consumes relayed identity sync messages and
// forwards them to the naming-sync collaborator.
type IdentitySyncHandler struct {
	syncer NameSyncer
	logger *logrus.Entry
}

func NewIdentitySyncHandler(syncer NameSyncer, logger *logrus.Entry) *IdentitySyncHandler {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &IdentitySyncHandler{
		syncer: syncer,
		logger: logger.WithField("component", "roster.identity_sync"),
	}
}

// Handler returns the event bus subscriber invoked by the relay's
// eventbus dispatcher. Messages on other topics are acked untouched.
func (h *IdentitySyncHandler) Handler() func(meta *pkgoutbox.Meta, topic string, payload json.RawMessage) error {
	return func(meta *pkgoutbox.Meta, topic string, payload json.RawMessage) error {
		if topic != services.TopicIdentitySync {
			return nil
		}

		var body services.IdentitySyncPayload
		if err := json.Unmarshal(payload, &body); err != nil {
			// A malformed payload never becomes deliverable;
			// ack it instead of poisoning the relay.
			h.logger.WithError(err).WithField("event_id", meta.EventID).Error("dropping malformed identity sync payload")
			return nil
		}

		if err := h.syncer.SyncName(context.Background(), body); err != nil {
			return err
		}

		h.logger.WithFields(logrus.Fields{
			"discord_id": body.DiscordID,
			"attempts":   meta.Attempts,
		}).Debug("identity sync delivered")
		return nil
	}
}

// LoggingNameSyncer is the default collaborator when no external
// naming service is configured: it records the sync and succeeds.
type LoggingNameSyncer struct {
	logger *logrus.Entry
}

func NewLoggingNameSyncer(logger *logrus.Entry) *LoggingNameSyncer {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &LoggingNameSyncer{logger: logger.WithField("component", "roster.name_sync")}
}

func (s *LoggingNameSyncer) SyncName(_ context.Context, payload services.IdentitySyncPayload) error {
	s.logger.WithFields(logrus.Fields{
		"discord_id": payload.DiscordID,
		"full_name":  payload.FullName,
		"static":     payload.Static,
		"rank":       payload.Rank,
	}).Info("identity sync")
	return nil
}
