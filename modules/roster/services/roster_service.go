package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/rosterhq/roster/modules/roster/domain/aggregates/personnel"
	"github.com/rosterhq/roster/modules/roster/domain/entities/blacklist"
	"github.com/rosterhq/roster/modules/roster/domain/entities/catalog"
	"github.com/rosterhq/roster/modules/roster/domain/entities/history"
	"github.com/rosterhq/roster/pkg/composables"
	"github.com/rosterhq/roster/pkg/constants"
	"github.com/rosterhq/roster/pkg/eventbus"
	"github.com/rosterhq/roster/pkg/outbox"
)

// Options tunes the lifecycle engine. Zero values fall back to the
// documented defaults.
type Options struct {
	BlacklistThresholdDays int
	ManualBlacklistDays    int
	PolicyRetryAttempts    int
	PolicyRetryMaxBackoff  time.Duration
	StoreRetryAttempts     int
	StoreRetryMaxBackoff   time.Duration
	OutboxTable            pgx.Identifier
}

func (o *Options) setDefaults() {
	if o.BlacklistThresholdDays == 0 {
		o.BlacklistThresholdDays = 5
	}
	if o.ManualBlacklistDays == 0 {
		o.ManualBlacklistDays = 14
	}
	if o.PolicyRetryAttempts == 0 {
		o.PolicyRetryAttempts = 5
	}
	if o.PolicyRetryMaxBackoff == 0 {
		o.PolicyRetryMaxBackoff = 30 * time.Second
	}
	if o.StoreRetryAttempts == 0 {
		o.StoreRetryAttempts = 3
	}
	if o.StoreRetryMaxBackoff == 0 {
		o.StoreRetryMaxBackoff = 2 * time.Second
	}
	if len(o.OutboxTable) == 0 {
		o.OutboxTable = pgx.Identifier{"public", "roster_outbox"}
	}
}

// RosterService is the transition engine over the personnel lifecycle.
// Every mutation runs as one transaction: state change plus exactly one
// history row, committed or rolled back together.
type RosterService struct {
	personnel personnel.Repository
	catalog   catalog.Repository
	history   history.Repository
	blacklist blacklist.Repository

	tx        TxManager
	publisher outbox.Publisher
	bus       eventbus.EventBus
	logger    *logrus.Entry
	cache     *summaryCache
	opts      Options
}

func NewRosterService(
	personnelRepo personnel.Repository,
	catalogRepo catalog.Repository,
	historyRepo history.Repository,
	blacklistRepo blacklist.Repository,
	txm TxManager,
	publisher outbox.Publisher,
	bus eventbus.EventBus,
	logger *logrus.Entry,
	opts Options,
) *RosterService {
	opts.setDefaults()
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &RosterService{
		personnel: personnelRepo,
		catalog:   catalogRepo,
		history:   historyRepo,
		blacklist: blacklistRepo,
		tx:        txm,
		publisher: publisher,
		bus:       bus,
		logger:    logger.WithField("component", "roster.service"),
		cache:     newSummaryCache(),
		opts:      opts,
	}
}

type HireInput struct {
	DiscordID   int64     `validate:"required"`
	FirstName   string    `validate:"required"`
	LastName    string
	Static      string    `validate:"required"`
	Rank        string    `validate:"required"`
	Subdivision string    `validate:"required"`
	Position    string    `validate:"required"`
	JoinDate    time.Time `validate:"required"`
	PerformedBy int64     `validate:"required"`
}

type TransferInput struct {
	DiscordID   int64 `validate:"required"`
	Rank        string
	Subdivision string
	Position    string
	PerformedBy int64 `validate:"required"`
}

type DismissInput struct {
	DiscordID     int64     `validate:"required"`
	DismissalDate time.Time `validate:"required"`
	Reason        string    `validate:"required"`
	PerformedBy   int64     `validate:"required"`
}

// Hire appoints a new or previously dismissed personnel. An identity
// that already holds an active appointment is rejected with a conflict.
func (s *RosterService) Hire(ctx context.Context, input HireInput) (personnel.Summary, error) {
	if err := constants.Validate.Struct(&input); err != nil {
		return personnel.Summary{}, validationError("invalid hire input", err)
	}
	static := NormalizeStatic(input.Static)
	if static == "" {
		return personnel.Summary{}, validationError(
			fmt.Sprintf("static %q must contain 5 or 6 digits", input.Static), nil)
	}

	var (
		out     personnel.Summary
		outDiff history.Diff
	)
	err := s.runInTx(ctx, func(txCtx context.Context) error {
		rank, err := s.catalog.RankByName(txCtx, input.Rank)
		if err != nil {
			return err
		}
		sub, err := s.catalog.SubdivisionByName(txCtx, input.Subdivision)
		if err != nil {
			return err
		}
		pos, err := s.catalog.PositionByName(txCtx, input.Position)
		if err != nil {
			return err
		}
		pairing, err := s.catalog.Pairing(txCtx, pos.ID, sub.ID)
		if err != nil {
			return err
		}

		prev := personnel.Summary{DiscordID: input.DiscordID, Status: personnel.StatusUnknown}
		existing, err := s.personnel.GetByDiscordID(txCtx, input.DiscordID)
		switch {
		case err == nil:
			if _, empErr := s.personnel.ActiveEmployee(txCtx, existing.ID()); empErr == nil {
				return conflictError("an active employee already exists for this identity", nil)
			} else if !errors.Is(empErr, personnel.ErrEmployeeNotFound) {
				return empErr
			}
			prev, err = s.personnel.GetSummaryByID(txCtx, existing.ID())
			if err != nil {
				return err
			}
		case errors.Is(err, personnel.ErrNotFound):
		default:
			return err
		}

		p, err := s.personnel.Upsert(txCtx, personnel.New(
			input.DiscordID, input.FirstName, input.LastName, static, input.JoinDate,
		))
		if err != nil {
			return err
		}

		if _, err := s.personnel.CreateEmployee(txCtx, personnel.NewEmployee(
			p.ID(), rank.ID, sub.ID, pairing.ID, input.JoinDate,
		)); err != nil {
			return err
		}

		next, err := s.personnel.GetSummaryByID(txCtx, p.ID())
		if err != nil {
			return err
		}

		diff := summaryDiff(prev, next)
		details := fmt.Sprintf("hired into %s as %s", sub.Name, pos.Name)
		if _, err := s.history.Append(txCtx, history.NewEntry(
			p.ID(), history.ActionHired, input.PerformedBy, details, diff,
		)); err != nil {
			return err
		}

		if err := s.enqueueIdentitySync(txCtx, next); err != nil {
			return err
		}

		out = next
		outDiff = diff
		return nil
	})
	recordMutation("hire", err)
	if err != nil {
		return personnel.Summary{}, mapStoreError(err)
	}

	s.cache.Replace(out)
	s.notifyAudit(history.ActionHired, out, input.PerformedBy, outDiff)
	return out, nil
}

// Transfer changes only the supplied appointment fields. A transfer
// that changes nothing commits nothing and records no history.
func (s *RosterService) Transfer(ctx context.Context, input TransferInput) (personnel.Summary, error) {
	if err := constants.Validate.Struct(&input); err != nil {
		return personnel.Summary{}, validationError("invalid transfer input", err)
	}
	if input.Rank == "" && input.Subdivision == "" && input.Position == "" {
		return personnel.Summary{}, validationError("at least one of rank, subdivision or position is required", nil)
	}

	var (
		out     personnel.Summary
		outDiff history.Diff
		moved   bool
	)
	err := s.runInTx(ctx, func(txCtx context.Context) error {
		p, err := s.personnel.GetByDiscordID(txCtx, input.DiscordID)
		if err != nil {
			return err
		}
		emp, err := s.personnel.ActiveEmployee(txCtx, p.ID())
		if err != nil {
			return err
		}

		rankID := int64(0)
		if input.Rank != "" {
			rank, err := s.catalog.RankByName(txCtx, input.Rank)
			if err != nil {
				return err
			}
			rankID = rank.ID
		}

		subdivisionID := emp.SubdivisionID()
		if input.Subdivision != "" {
			sub, err := s.catalog.SubdivisionByName(txCtx, input.Subdivision)
			if err != nil {
				return err
			}
			subdivisionID = sub.ID
		}

		positionID := int64(0)
		if input.Position != "" {
			pos, err := s.catalog.PositionByName(txCtx, input.Position)
			if err != nil {
				return err
			}
			positionID = pos.ID
		} else {
			pairing, err := s.catalog.PairingByID(txCtx, emp.PositionSubdivisionID())
			if err != nil {
				return err
			}
			positionID = pairing.PositionID
		}

		// The appointment references the (position, subdivision)
		// pairing, so either side changing re-resolves it.
		pairing, err := s.catalog.Pairing(txCtx, positionID, subdivisionID)
		if err != nil {
			return err
		}

		updated := emp.Reassigned(rankID, subdivisionID, pairing.ID)
		if updated == emp {
			out, err = s.personnel.GetSummaryByID(txCtx, p.ID())
			return err
		}

		prev, err := s.personnel.GetSummaryByID(txCtx, p.ID())
		if err != nil {
			return err
		}

		if _, err := s.personnel.UpdateEmployee(txCtx, updated, emp.LastUpdated()); err != nil {
			return err
		}

		next, err := s.personnel.GetSummaryByID(txCtx, p.ID())
		if err != nil {
			return err
		}

		diff := summaryDiff(prev, next)
		if !diff.IsEmpty() {
			if _, err := s.history.Append(txCtx, history.NewEntry(
				p.ID(), history.ActionTransferred, input.PerformedBy, "appointment changed", diff,
			)); err != nil {
				return err
			}
		}

		if err := s.enqueueIdentitySync(txCtx, next); err != nil {
			return err
		}

		out = next
		outDiff = diff
		moved = true
		return nil
	})
	recordMutation("transfer", err)
	if err != nil {
		return personnel.Summary{}, mapStoreError(err)
	}

	if moved {
		s.cache.Patch(out)
		s.notifyAudit(history.ActionTransferred, out, input.PerformedBy, outDiff)
	}
	return out, nil
}

// Dismiss ends the active appointment. The employee row is removed and
// the personnel record flips to dismissed in one transaction; the
// blacklist policy runs after commit and never affects the dismissal.
func (s *RosterService) Dismiss(ctx context.Context, input DismissInput) (personnel.Summary, error) {
	if err := constants.Validate.Struct(&input); err != nil {
		return personnel.Summary{}, validationError("invalid dismiss input", err)
	}

	var (
		out      personnel.Summary
		outDiff  history.Diff
		joinDate time.Time
	)
	err := s.runInTx(ctx, func(txCtx context.Context) error {
		p, err := s.personnel.GetByDiscordID(txCtx, input.DiscordID)
		if err != nil {
			return err
		}
		if _, err := s.personnel.ActiveEmployee(txCtx, p.ID()); err != nil {
			return err
		}

		prev, err := s.personnel.GetSummaryByID(txCtx, p.ID())
		if err != nil {
			return err
		}

		if err := s.personnel.DeleteEmployee(txCtx, p.ID()); err != nil {
			return err
		}
		dismissed, err := s.personnel.MarkDismissed(
			txCtx, p.ID(), input.DismissalDate, input.Reason, p.LastUpdated(),
		)
		if err != nil {
			return err
		}

		next, err := s.personnel.GetSummaryByID(txCtx, p.ID())
		if err != nil {
			return err
		}

		diff := summaryDiff(prev, next)
		if _, err := s.history.Append(txCtx, history.NewEntry(
			p.ID(), history.ActionDismissed, input.PerformedBy, input.Reason, diff,
		)); err != nil {
			return err
		}

		if err := s.enqueueIdentitySync(txCtx, next); err != nil {
			return err
		}

		out = next
		outDiff = diff
		joinDate = dismissed.JoinDate()
		return nil
	})
	recordMutation("dismiss", err)
	if err != nil {
		return personnel.Summary{}, mapStoreError(err)
	}

	s.cache.Replace(out)
	s.applyBlacklistPolicy(ctx, out.PersonnelID, joinDate, input.DismissalDate)
	s.notifyAudit(history.ActionDismissed, out, input.PerformedBy, outDiff)
	return out, nil
}

// GetSummary reads the authoritative store, never the cache.
func (s *RosterService) GetSummary(ctx context.Context, personnelID int64) (personnel.Summary, error) {
	out, err := s.personnel.GetSummaryByID(ctx, personnelID)
	if err != nil {
		return personnel.Summary{}, mapStoreError(err)
	}
	return out, nil
}

func (s *RosterService) GetSummaryByDiscordID(ctx context.Context, discordID int64) (personnel.Summary, error) {
	out, err := s.personnel.GetSummaryByDiscordID(ctx, discordID)
	if err != nil {
		return personnel.Summary{}, mapStoreError(err)
	}
	return out, nil
}

// CachedSummary serves from the write-through cache and falls back to
// the store on a miss, installing the result.
func (s *RosterService) CachedSummary(ctx context.Context, discordID int64) (personnel.Summary, error) {
	if summary, ok := s.cache.Get(discordID); ok {
		return summary, nil
	}
	out, err := s.personnel.GetSummaryByDiscordID(ctx, discordID)
	if err != nil {
		return personnel.Summary{}, mapStoreError(err)
	}
	s.cache.Replace(out)
	return out, nil
}

// PreloadCache bulk-populates the summary cache with one full scan.
// Invoked once at startup; a failure leaves the cache empty but does
// not affect the store.
func (s *RosterService) PreloadCache(ctx context.Context) (int, error) {
	summaries, err := s.personnel.ListSummaries(ctx)
	if err != nil {
		return 0, mapStoreError(err)
	}
	s.cache.Preload(summaries)
	return len(summaries), nil
}

// History returns the personnel's full career, oldest first.
func (s *RosterService) History(ctx context.Context, personnelID int64) ([]history.Entry, error) {
	entries, err := s.history.ListByPersonnel(ctx, personnelID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return entries, nil
}

// EvaluateBlacklistPolicy runs one policy evaluation in its own
// transaction. It is idempotent: an already-active entry is left
// untouched no matter how often the evaluator re-runs.
func (s *RosterService) EvaluateBlacklistPolicy(ctx context.Context, personnelID int64, joinDate, dismissalDate time.Time) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		hasActive := false
		if _, err := s.blacklist.ActiveByPersonnel(txCtx, personnelID); err == nil {
			hasActive = true
		} else if !errors.Is(err, blacklist.ErrNotFound) {
			return err
		}

		switch Decide(joinDate, dismissalDate, s.opts.BlacklistThresholdDays, hasActive) {
		case DecisionCreate:
			if _, err := s.blacklist.Create(txCtx, blacklist.NewAuto(personnelID, dismissalDate)); err != nil {
				return err
			}
			recordPolicyRun("created")
		case DecisionAlreadyActive:
			recordPolicyRun("already_active")
		default:
			recordPolicyRun("skipped")
		}
		return nil
	})
	if err != nil {
		return newServiceError(http.StatusInternalServerError, CodePolicyFailed, "blacklist policy evaluation failed", err)
	}
	return nil
}

// applyBlacklistPolicy runs the evaluator once and, on failure, hands
// it to a detached retry loop decoupled from the caller's lifetime.
func (s *RosterService) applyBlacklistPolicy(ctx context.Context, personnelID int64, joinDate, dismissalDate time.Time) {
	err := s.EvaluateBlacklistPolicy(ctx, personnelID, joinDate, dismissalDate)
	if err == nil {
		return
	}
	s.logger.WithError(err).WithField("personnel_id", personnelID).Warn("blacklist policy failed, scheduling retry")

	detached := context.WithoutCancel(ctx)
	go func() {
		for attempt := 1; attempt <= s.opts.PolicyRetryAttempts; attempt++ {
			rosterPolicyRetries.Inc()
			time.Sleep(outbox.Backoff(attempt, s.opts.PolicyRetryMaxBackoff))
			err := s.EvaluateBlacklistPolicy(detached, personnelID, joinDate, dismissalDate)
			if err == nil {
				return
			}
			s.logger.WithError(err).WithFields(logrus.Fields{
				"personnel_id": personnelID,
				"attempt":      attempt,
			}).Warn("blacklist policy retry failed")
		}
		s.logger.WithField("personnel_id", personnelID).Error("blacklist policy retries exhausted")
	}()
}

// runInTx wraps the transaction boundary with bounded retry on
// transient store failures.
func (s *RosterService) runInTx(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = s.tx.RunInTx(ctx, fn)
		if err == nil || !isRetryable(err) || attempt > s.opts.StoreRetryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(outbox.Backoff(attempt, s.opts.StoreRetryMaxBackoff)):
		}
	}
}

func (s *RosterService) enqueueIdentitySync(txCtx context.Context, summary personnel.Summary) error {
	if s.publisher == nil {
		return nil
	}
	tx, err := composables.UseTx(txCtx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(identitySyncPayload(summary))
	if err != nil {
		return err
	}
	_, err = s.publisher.Enqueue(txCtx, tx, s.opts.OutboxTable, outbox.Message{
		Topic:   TopicIdentitySync,
		EventID: uuid.New(),
		Payload: payload,
	})
	return err
}

// notifyAudit offers the committed mutation to notifier subscribers.
// Best effort only: it runs after commit and can never fail the
// operation.
func (s *RosterService) notifyAudit(action history.Action, summary personnel.Summary, performedBy int64, changes history.Diff) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(AuditNotification{
		Action:      action,
		Summary:     summary,
		PerformedBy: performedBy,
		Changes:     changes,
	})
}
