package live

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fintra/internal/engine"
	"fintra/internal/logger"
	"fintra/internal/models"
	"fintra/internal/uuid"
)

// Source turns bus signals into engine snapshots. On each signal it
// re-queries the affected user's full transaction and budget limit
// collections, so every snapshot is a consistent materialization of the
// store at read time, and partial or stale results are never delivered.
type Source struct {
	db   *gorm.DB
	sub  *Subscription
	out  chan engine.Snapshot
	done chan struct{}
	log  *zap.SugaredLogger
}

// NewSource subscribes to the bus and starts delivering snapshots.
func NewSource(db *gorm.DB, bus *Bus) *Source {
	s := &Source{
		db:   db,
		sub:  bus.Subscribe(),
		out:  make(chan engine.Snapshot),
		done: make(chan struct{}),
		log:  logger.Named("live.source"),
	}
	go s.loop()
	return s
}

// Snapshots implements engine.Source.
func (s *Source) Snapshots() <-chan engine.Snapshot {
	return s.out
}

// Close implements engine.Source. It releases the bus subscription and
// stops the delivery goroutine.
func (s *Source) Close() {
	s.sub.Close()
	close(s.done)
}

func (s *Source) loop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.sub.Changed():
			for _, userID := range s.sub.Drain() {
				snap, err := s.load(userID)
				if err != nil {
					// Skip this delivery; the next change will retry.
					s.log.Errorw("failed to load snapshot", "user_id", userID, "error", err)
					continue
				}
				select {
				case s.out <- snap:
				case <-s.done:
					return
				}
			}
		}
	}
}

// load materializes one user's snapshot. Collections are ordered by
// occurrence time then ID so deliveries are stable.
func (s *Source) load(userID string) (engine.Snapshot, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).
		Order("occurred_at, id").Find(&transactions).Error; err != nil {
		return engine.Snapshot{}, err
	}

	var limits []models.BudgetLimit
	if err := s.db.Where("user_id = ?", userID).
		Order("category, id").Find(&limits).Error; err != nil {
		return engine.Snapshot{}, err
	}

	return engine.Snapshot{
		UserID:       userID,
		Revision:     uuid.New(),
		Transactions: RecordsFromTransactions(transactions),
		Limits:       LimitsFromModels(limits),
	}, nil
}

// RecordsFromTransactions converts persisted transactions to engine
// records, shifting cent amounts to major units.
func RecordsFromTransactions(transactions []models.Transaction) []engine.Record {
	records := make([]engine.Record, 0, len(transactions))
	for _, tx := range transactions {
		records = append(records, engine.Record{
			ID:         tx.ID,
			Type:       string(tx.Type),
			Category:   tx.Category,
			Amount:     decimal.New(tx.Amount, -2),
			OccurredAt: tx.OccurredAt,
		})
	}
	return records
}

// LimitsFromModels converts persisted budget limits to engine limits.
func LimitsFromModels(limits []models.BudgetLimit) []engine.Limit {
	out := make([]engine.Limit, 0, len(limits))
	for _, l := range limits {
		out = append(out, engine.Limit{
			ID:               l.ID,
			Category:         l.Category,
			Amount:           decimal.New(l.LimitAmount, -2),
			ThresholdPercent: l.ThresholdPercent,
		})
	}
	return out
}
