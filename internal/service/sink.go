package service

import (
	"context"
	"fmt"

	"github.com/xiaot623/debate/internal/domain"
)

// RecordSink consumes accepted history records.
type RecordSink interface {
	HandleRecord(ctx context.Context, rec domain.HistoryRecord) error
}

// SinkFunc adapts a function to RecordSink.
type SinkFunc func(ctx context.Context, rec domain.HistoryRecord) error

// HandleRecord calls f.
func (f SinkFunc) HandleRecord(ctx context.Context, rec domain.HistoryRecord) error {
	return f(ctx, rec)
}

type namedSink struct {
	name string
	sink RecordSink
}

// publish hands rec to every sink. A failing or panicking sink is logged and
// skipped; it never affects the submission outcome or the other sinks.
func (s *Service) publish(ctx context.Context, rec domain.HistoryRecord) {
	for _, ns := range s.sinks {
		if err := safeHandle(ctx, ns.sink, rec); err != nil {
			s.logger.Warn("record sink failed", "sink", ns.name, "record_id", rec.RecordID, "error", err)
		}
	}
}

func safeHandle(ctx context.Context, sink RecordSink, rec domain.HistoryRecord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panicked: %v", r)
		}
	}()
	return sink.HandleRecord(ctx, rec)
}
