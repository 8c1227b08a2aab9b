// Package ledger saves, edits and deletes sale and purchase transactions,
// keeping item and supplier balances reconciled with every row written.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goldbook/backend/internal/application/reconciliation"
	"github.com/goldbook/backend/internal/application/store"
	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/goldbook/backend/internal/infrastructure/logger"
	"github.com/goldbook/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Recorder counts ledger writes
type Recorder interface {
	RecordTransaction(ctx context.Context, op, txType string, fine decimal.Decimal)
}

// Service handles ledger transactions
type Service struct {
	scope     store.TransactionScope
	repos     store.Repositories
	generator *ledger.RefIDGenerator
	recorder  Recorder
	logger    *zap.Logger
}

// NewService creates a new ledger Service. repos serves reads and
// reference allocation outside of transactions.
func NewService(
	scope store.TransactionScope,
	repos store.Repositories,
	generator *ledger.RefIDGenerator,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if generator == nil {
		generator = ledger.NewRefIDGenerator()
	}
	return &Service{
		scope:     scope,
		repos:     repos,
		generator: generator,
		logger:    log.Named("ledger"),
	}
}

// SetRecorder attaches a metrics recorder for saved, edited and deleted
// transactions
func (s *Service) SetRecorder(r Recorder) {
	s.recorder = r
}

func (s *Service) record(ctx context.Context, op, refID string, fine decimal.Decimal) {
	if s.recorder == nil {
		return
	}
	txType, err := ledger.TypeOfRefID(refID)
	if err != nil {
		return
	}
	s.recorder.RecordTransaction(ctx, op, string(txType), fine)
}

// NewDraft allocates a reference id and starts a draft dated day
func (s *Service) NewDraft(ctx context.Context, txType ledger.TxType, day time.Time) (*ledger.Draft, error) {
	if !txType.IsValid() {
		return nil, shared.InvalidInput("Unknown transaction type")
	}
	refID, err := s.generator.Next(ctx, s.repos.Ledger(), txType.Prefix(), day)
	if err != nil {
		return nil, err
	}
	return ledger.NewDraft(txType, refID, day)
}

// DraftFromRequest builds a draft from a create request, allocating a
// reference id unless the request carries one
func (s *Service) DraftFromRequest(ctx context.Context, req CreateTransactionRequest) (*ledger.Draft, error) {
	txType, err := ledger.ParseTxType(req.Type)
	if err != nil {
		return nil, err
	}
	day := today()
	if req.Date != nil {
		day = *req.Date
	}

	var d *ledger.Draft
	if req.RefID == "" {
		d, err = s.NewDraft(ctx, txType, day)
	} else {
		d, err = ledger.NewDraft(txType, req.RefID, day)
	}
	if err != nil {
		return nil, err
	}
	fill(d, req.SupplierName, req.Notes, req.Lines)
	return d, nil
}

// DraftForEdit builds a draft that replaces the transaction refID. Without
// a date the edited transaction keeps its original one.
func DraftForEdit(refID string, req EditTransactionRequest) (*ledger.Draft, error) {
	var day time.Time
	if req.Date != nil {
		day = *req.Date
	}
	d, err := ledger.NewEditDraft(refID, day)
	if err != nil {
		return nil, err
	}
	fill(d, req.SupplierName, req.Notes, req.Lines)
	return d, nil
}

func fill(d *ledger.Draft, supplierName, notes string, lines []LineRequest) {
	d.SupplierName = strings.TrimSpace(supplierName)
	d.Notes = notes
	for _, l := range lines {
		d.AddLine(l.ToLine())
	}
}

func today() time.Time {
	y, m, day := time.Now().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.Local)
}

// Create saves every complete line of the draft and books its effect on
// item and supplier balances, all in one transaction
func (s *Service) Create(ctx context.Context, d *ledger.Draft) (*TransactionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "create",
		attribute.String(telemetry.SpanAttrRefID, d.RefID),
		attribute.String(telemetry.SpanAttrSupplierName, d.SupplierName))
	defer span.End()

	if err := d.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	ctx = logger.WithRefID(ctx, d.RefID)

	var entries []ledger.Entry
	err := s.scope.Execute(ctx, func(repos store.Repositories) error {
		exists, err := repos.Ledger().RefIDExists(ctx, d.RefID)
		if err != nil {
			return fmt.Errorf("failed to check reference %s: %w", d.RefID, err)
		}
		if exists {
			return shared.NewDomainError(shared.CodeAlreadyExists,
				fmt.Sprintf("Transaction %s already exists", d.RefID))
		}
		entries, err = book(ctx, repos, d)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("transaction not saved",
			zap.String("ref_id", d.RefID),
			zap.String("draft_id", d.ID.String()),
			zap.Error(err))
		return nil, err
	}
	resp := ToTransactionResponse(entries)
	span.SetAttributes(attribute.Int(telemetry.SpanAttrRows, len(entries)))
	s.record(ctx, "create", d.RefID, resp.TotalFine)

	s.logger.Info("transaction saved",
		zap.String("ref_id", d.RefID),
		zap.String("draft_id", d.ID.String()),
		zap.String("supplier", d.SupplierName),
		zap.Int("lines", len(entries)),
		zap.Int("skipped", len(d.Lines)-len(entries)))
	return resp, nil
}

// Edit replaces the rows of an existing transaction. The old rows are
// reversed and deleted, then the draft is booked under the same reference.
func (s *Service) Edit(ctx context.Context, d *ledger.Draft) (*TransactionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "edit",
		attribute.String(telemetry.SpanAttrRefID, d.RefID))
	defer span.End()

	if err := d.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	ctx = logger.WithRefID(ctx, d.RefID)

	var entries []ledger.Entry
	var replaced int
	err := s.scope.Execute(ctx, func(repos store.Repositories) error {
		rows, err := unbook(ctx, repos, d.RefID)
		if err != nil {
			return err
		}
		replaced = len(rows)
		if d.Date.IsZero() {
			d.Date = rows[0].Date
		}
		entries, err = book(ctx, repos, d)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("transaction not edited", zap.String("ref_id", d.RefID), zap.Error(err))
		return nil, err
	}
	resp := ToTransactionResponse(entries)
	s.record(ctx, "edit", d.RefID, resp.TotalFine)

	s.logger.Info("transaction edited",
		zap.String("ref_id", d.RefID),
		zap.Int("replaced", replaced),
		zap.Int("lines", len(entries)))
	return resp, nil
}

// Delete reverses and removes every row of a transaction
func (s *Service) Delete(ctx context.Context, refID string) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "delete",
		attribute.String(telemetry.SpanAttrRefID, refID))
	defer span.End()
	ctx = logger.WithRefID(ctx, refID)

	var removed int
	err := s.scope.Execute(ctx, func(repos store.Repositories) error {
		rows, err := unbook(ctx, repos, refID)
		removed = len(rows)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}
	span.SetAttributes(attribute.Int(telemetry.SpanAttrRows, removed))
	s.record(ctx, "delete", refID, decimal.Zero)

	s.logger.Info("transaction deleted", zap.String("ref_id", refID), zap.Int("rows", removed))
	return removed, nil
}

// UpdateEntry rewrites one row. The old effect is reversed and the new one
// applied; item and supplier may both change.
func (s *Service) UpdateEntry(ctx context.Context, id ledger.EntryID, supplierName string, line ledger.Line) (*EntryResponse, error) {
	if strings.TrimSpace(supplierName) == "" {
		return nil, shared.InvalidInput("Please select a supplier")
	}
	if !line.IsComplete() {
		return nil, shared.InvalidInput("All fields are required to update a record")
	}
	if err := line.Measure().Validate(); err != nil {
		return nil, err
	}

	var updated *ledger.Entry
	err := s.scope.Execute(ctx, func(repos store.Repositories) error {
		e, err := repos.Ledger().FindByID(ctx, id)
		if err != nil {
			return err
		}
		ctx = logger.WithRefID(ctx, e.RefID)
		old := e.Effect()

		item, err := repos.Items().FindByID(ctx, line.ItemID)
		if err != nil {
			return err
		}
		if _, err := repos.Suppliers().FindByName(ctx, strings.TrimSpace(supplierName)); err != nil {
			return err
		}
		if err := e.Revise(supplierName, item, line.Measure()); err != nil {
			return err
		}
		if err := repos.Ledger().Update(ctx, e); err != nil {
			return fmt.Errorf("failed to update entry %d: %w", id, err)
		}
		if err := reconciliation.ReverseAndReapply(ctx, repos, old, e.Effect()); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("entry updated",
		zap.Int64("entry_id", int64(id)),
		zap.String("ref_id", updated.RefID))
	resp := ToEntryResponse(updated)
	return &resp, nil
}

// Get returns the transaction with the given reference id
func (s *Service) Get(ctx context.Context, refID string) (*TransactionResponse, error) {
	entries, err := s.repos.Ledger().FindByRefID(ctx, refID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, shared.NotFound(fmt.Sprintf("Transaction %s not found", refID))
	}
	return ToTransactionResponse(entries), nil
}

// List returns ledger rows newest first
func (s *Service) List(ctx context.Context, filter ListEntriesFilter) ([]EntryResponse, error) {
	f := ledger.EntryFilter{
		SupplierName: strings.TrimSpace(filter.SupplierName),
		From:         filter.From,
		To:           filter.To,
		Limit:        filter.Limit,
	}
	if filter.Type != "" {
		t, err := ledger.ParseTxType(filter.Type)
		if err != nil {
			return nil, err
		}
		f.Type = t
	}

	entries, err := s.repos.Ledger().List(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToEntryResponses(entries), nil
}

// book writes the complete lines of d and applies their effects
func book(ctx context.Context, repos store.Repositories, d *ledger.Draft) ([]ledger.Entry, error) {
	supplierName := strings.TrimSpace(d.SupplierName)
	if _, err := repos.Suppliers().FindByName(ctx, supplierName); err != nil {
		return nil, err
	}

	lines := d.CompleteLines()
	entries := make([]ledger.Entry, 0, len(lines))
	for i, line := range lines {
		item, err := repos.Items().FindByID(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		e, err := ledger.NewEntry(d.RefID, supplierName, item, line.Measure(), d.Date, d.Notes)
		if err != nil {
			return nil, err
		}
		if err := repos.Ledger().Create(ctx, e); err != nil {
			return nil, fmt.Errorf("failed to save line %d of %s: %w", i+1, d.RefID, err)
		}
		if err := reconciliation.ApplyEffect(ctx, repos, e.Effect()); err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, nil
}

// unbook reverses and deletes the rows of refID and returns them
func unbook(ctx context.Context, repos store.Repositories, refID string) ([]ledger.Entry, error) {
	rows, err := repos.Ledger().FindByRefID(ctx, refID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NotFound(fmt.Sprintf("Transaction %s not found", refID))
	}
	for _, row := range rows {
		if err := reconciliation.ReverseEffect(ctx, repos, row.Effect()); err != nil {
			return nil, err
		}
	}
	if _, err := repos.Ledger().DeleteByRefID(ctx, refID); err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", refID, err)
	}
	return rows, nil
}
