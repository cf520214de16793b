// Package worker mirrors records from the primary store to the statement
// export. It is the consuming end of the sync queue.
package worker

import (
	"context"
	"errors"
	"fmt"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/export/sheets"
	"gastos/internal/log"
	"gastos/internal/store"
)

// RecordGetter is the slice of the store the worker reads from.
type RecordGetter interface {
	GetRecord(ctx context.Context, userID, id string) (core.ExpenseRecord, error)
}

type SyncWorker struct {
	records  RecordGetter
	appender sheets.RecordAppender
	logger   *log.Logger
}

func NewSyncWorker(records RecordGetter, appender sheets.RecordAppender, logger *log.Logger) *SyncWorker {
	return &SyncWorker{
		records:  records,
		appender: appender,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleSyncMessage fetches the referenced record and appends it to the
// statement. A record deleted before the worker got to it is skipped, not
// retried: the statement mirrors live data only.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	rec, err := w.records.GetRecord(ctx, msg.UserID, msg.RecordID)
	if errors.Is(err, store.ErrNotFound) {
		w.logger.WarnContext(ctx, "record vanished before sync, skipping",
			log.FieldRecordID, msg.RecordID,
			log.FieldMonthKey, string(msg.Month))
		return nil
	}
	if err != nil {
		return fmt.Errorf("get record from store: %w", err)
	}

	if err := w.appender.AppendRecord(ctx, rec); err != nil {
		return fmt.Errorf("append record to statement: %w", err)
	}

	w.logger.InfoContext(ctx, "record mirrored to statement",
		log.FieldRecordID, rec.ID,
		log.FieldMonthKey, string(rec.Month),
		log.FieldAmountCents, rec.AmountCents)
	return nil
}

// Run consumes the sync queue until ctx is cancelled.
func (w *SyncWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeRecordSync(ctx, func(msg *amqp.RecordSyncMessage) error {
		return w.HandleSyncMessage(ctx, msg)
	})
}
