package services

import (
	"context"
	"errors"
	"time"

	"github.com/rosterhq/roster/modules/roster/domain/entities/blacklist"
	"github.com/rosterhq/roster/modules/roster/domain/entities/history"
	"github.com/rosterhq/roster/pkg/constants"
)

type BlacklistInput struct {
	DiscordID   int64     `validate:"required"`
	Reason      string    `validate:"required"`
	StartDate   time.Time `validate:"required"`
	Days        int
	PerformedBy int64 `validate:"required"`
}

// Blacklist records a manual restriction. Unlike the automatic policy
// path it carries the moderator identity and a bounded end date.
func (s *RosterService) Blacklist(ctx context.Context, input BlacklistInput) (blacklist.Entry, error) {
	if err := constants.Validate.Struct(&input); err != nil {
		return blacklist.Entry{}, validationError("invalid blacklist input", err)
	}
	days := input.Days
	if days <= 0 {
		days = s.opts.ManualBlacklistDays
	}

	var out blacklist.Entry
	err := s.runInTx(ctx, func(txCtx context.Context) error {
		p, err := s.personnel.GetByDiscordID(txCtx, input.DiscordID)
		if err != nil {
			return err
		}
		if _, err := s.blacklist.ActiveByPersonnel(txCtx, p.ID()); err == nil {
			return conflictError("an active blacklist entry already exists", nil)
		} else if !errors.Is(err, blacklist.ErrNotFound) {
			return err
		}

		endDate := input.StartDate.AddDate(0, 0, days)
		entry, err := s.blacklist.Create(txCtx, blacklist.NewManual(
			p.ID(), input.Reason, input.StartDate, endDate, input.PerformedBy,
		))
		if err != nil {
			return err
		}

		diff := history.Diff{"blacklist": history.Change{Previous: nil, New: input.Reason}}
		if _, err := s.history.Append(txCtx, history.NewEntry(
			p.ID(), history.ActionBlacklisted, input.PerformedBy, input.Reason, diff,
		)); err != nil {
			return err
		}

		out = entry
		return nil
	})
	recordMutation("blacklist", err)
	if err != nil {
		return blacklist.Entry{}, mapStoreError(err)
	}
	return out, nil
}

// LiftBlacklist deactivates the personnel's active entry.
func (s *RosterService) LiftBlacklist(ctx context.Context, discordID int64) error {
	err := s.runInTx(ctx, func(txCtx context.Context) error {
		p, err := s.personnel.GetByDiscordID(txCtx, discordID)
		if err != nil {
			return err
		}
		entry, err := s.blacklist.ActiveByPersonnel(txCtx, p.ID())
		if err != nil {
			return err
		}
		return s.blacklist.Deactivate(txCtx, entry.ID())
	})
	recordMutation("blacklist_lift", err)
	return mapStoreError(err)
}

// BlacklistHistory returns all restriction records for a personnel.
func (s *RosterService) BlacklistHistory(ctx context.Context, discordID int64) ([]blacklist.Entry, error) {
	p, err := s.personnel.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	entries, err := s.blacklist.ListByPersonnel(ctx, p.ID())
	if err != nil {
		return nil, mapStoreError(err)
	}
	return entries, nil
}
