package log

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealradar/audit-engine/pkg/requestid"
)

// StructuredLogger emits machine-parseable operation traces. Each service
// method builds one tracer per operation and logs named steps against it.
type StructuredLogger struct {
	logger    *zap.SugaredLogger
	component string
	ctx       context.Context
}

func NewDebugLogger(component string) *StructuredLogger {
	return &StructuredLogger{
		logger:    zap.S().Named(component),
		component: component,
	}
}

func (l *StructuredLogger) WithContext(ctx context.Context) *StructuredLogger {
	return &StructuredLogger{
		logger:    l.logger,
		component: l.component,
		ctx:       ctx,
	}
}

func (l *StructuredLogger) Operation(name string) *OperationBuilder {
	fields := []any{"operation", name}
	if l.ctx != nil {
		if id := requestid.FromContext(l.ctx); id != "" {
			fields = append(fields, "request_id", id)
		}
	}
	return &OperationBuilder{
		logger:    l.logger,
		operation: name,
		fields:    fields,
	}
}

type OperationBuilder struct {
	logger    *zap.SugaredLogger
	operation string
	fields    []any
}

func (b *OperationBuilder) WithString(key, value string) *OperationBuilder {
	b.fields = append(b.fields, key, value)
	return b
}

func (b *OperationBuilder) WithStringPtr(key string, value *string) *OperationBuilder {
	if value != nil {
		b.fields = append(b.fields, key, *value)
	}
	return b
}

func (b *OperationBuilder) WithInt(key string, value int) *OperationBuilder {
	b.fields = append(b.fields, key, value)
	return b
}

func (b *OperationBuilder) WithBool(key string, value bool) *OperationBuilder {
	b.fields = append(b.fields, key, value)
	return b
}

func (b *OperationBuilder) WithUUID(key string, value uuid.UUID) *OperationBuilder {
	b.fields = append(b.fields, key, value.String())
	return b
}

func (b *OperationBuilder) WithUUIDPtr(key string, value *uuid.UUID) *OperationBuilder {
	if value != nil {
		b.fields = append(b.fields, key, value.String())
	}
	return b
}

func (b *OperationBuilder) WithParam(key string, value any) *OperationBuilder {
	b.fields = append(b.fields, key, value)
	return b
}

func (b *OperationBuilder) Build() *OperationTracer {
	return &OperationTracer{
		logger:    b.logger.With(b.fields...),
		operation: b.operation,
		started:   time.Now(),
	}
}

type OperationTracer struct {
	logger    *zap.SugaredLogger
	operation string
	started   time.Time
}

func (t *OperationTracer) Step(name string) *EntryBuilder {
	return &EntryBuilder{
		log:    t.logger.Debugw,
		msg:    t.operation,
		fields: []any{"step", name},
	}
}

func (t *OperationTracer) Success() *EntryBuilder {
	return &EntryBuilder{
		log:    t.logger.Infow,
		msg:    t.operation,
		fields: []any{"step", "success", "duration_ms", time.Since(t.started).Milliseconds()},
	}
}

func (t *OperationTracer) Error(err error) *EntryBuilder {
	return &EntryBuilder{
		log:    t.logger.Errorw,
		msg:    t.operation,
		fields: []any{"step", "error", "error", err, "duration_ms", time.Since(t.started).Milliseconds()},
	}
}

type EntryBuilder struct {
	log    func(msg string, keysAndValues ...any)
	msg    string
	fields []any
}

func (e *EntryBuilder) WithString(key, value string) *EntryBuilder {
	e.fields = append(e.fields, key, value)
	return e
}

func (e *EntryBuilder) WithStringPtr(key string, value *string) *EntryBuilder {
	if value != nil {
		e.fields = append(e.fields, key, *value)
	}
	return e
}

func (e *EntryBuilder) WithInt(key string, value int) *EntryBuilder {
	e.fields = append(e.fields, key, value)
	return e
}

func (e *EntryBuilder) WithBool(key string, value bool) *EntryBuilder {
	e.fields = append(e.fields, key, value)
	return e
}

func (e *EntryBuilder) WithUUID(key string, value uuid.UUID) *EntryBuilder {
	e.fields = append(e.fields, key, value.String())
	return e
}

func (e *EntryBuilder) WithUUIDPtr(key string, value *uuid.UUID) *EntryBuilder {
	if value != nil {
		e.fields = append(e.fields, key, value.String())
	}
	return e
}

func (e *EntryBuilder) WithParam(key string, value any) *EntryBuilder {
	e.fields = append(e.fields, key, value)
	return e
}

func (e *EntryBuilder) Log() {
	e.log(e.msg, e.fields...)
}
