package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/store"
)

type fakeGetter struct {
	records map[string]core.ExpenseRecord
	err     error
}

func (f *fakeGetter) GetRecord(_ context.Context, _ string, id string) (core.ExpenseRecord, error) {
	if f.err != nil {
		return core.ExpenseRecord{}, f.err
	}
	rec, ok := f.records[id]
	if !ok {
		return core.ExpenseRecord{}, store.ErrNotFound
	}
	return rec, nil
}

type fakeAppender struct {
	appended []core.ExpenseRecord
	err      error
}

func (f *fakeAppender) AppendRecord(_ context.Context, rec core.ExpenseRecord) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, rec)
	return nil
}

func testRecord() core.ExpenseRecord {
	return core.ExpenseRecord{
		ID:          "rec-1",
		Month:       "2024-03",
		Category:    core.CategoryMercado,
		Description: "feira",
		AmountCents: 12050,
		CreatedAt:   time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
		Origin:      core.Origin{Type: core.OriginSingle},
	}
}

func TestHandleSyncMessage(t *testing.T) {
	rec := testRecord()
	getter := &fakeGetter{records: map[string]core.ExpenseRecord{rec.ID: rec}}
	appender := &fakeAppender{}
	w := NewSyncWorker(getter, appender, log.New(log.DefaultConfig()))

	msg := amqp.NewRecordSyncMessage("", rec.ID, rec.Month)
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage() error = %v", err)
	}
	if len(appender.appended) != 1 || appender.appended[0].ID != rec.ID {
		t.Fatalf("appended = %+v", appender.appended)
	}
}

func TestHandleSyncMessageVanishedRecord(t *testing.T) {
	getter := &fakeGetter{records: map[string]core.ExpenseRecord{}}
	appender := &fakeAppender{}
	w := NewSyncWorker(getter, appender, log.New(log.DefaultConfig()))

	msg := amqp.NewRecordSyncMessage("", "gone", "2024-03")
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("vanished record should be skipped, got error %v", err)
	}
	if len(appender.appended) != 0 {
		t.Errorf("nothing should be appended, got %d rows", len(appender.appended))
	}
}

func TestHandleSyncMessagePropagatesFailures(t *testing.T) {
	rec := testRecord()

	t.Run("store failure", func(t *testing.T) {
		getter := &fakeGetter{err: errors.New("connection reset")}
		w := NewSyncWorker(getter, &fakeAppender{}, log.New(log.DefaultConfig()))
		msg := amqp.NewRecordSyncMessage("", rec.ID, rec.Month)
		if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
			t.Error("store failure should propagate for requeue")
		}
	})

	t.Run("append failure", func(t *testing.T) {
		getter := &fakeGetter{records: map[string]core.ExpenseRecord{rec.ID: rec}}
		appender := &fakeAppender{err: errors.New("quota exceeded")}
		w := NewSyncWorker(getter, appender, log.New(log.DefaultConfig()))
		msg := amqp.NewRecordSyncMessage("", rec.ID, rec.Month)
		if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
			t.Error("append failure should propagate for requeue")
		}
	})
}
