// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"
	"fmt"
	"time"

	"github.com/parmahealth/parma/pkg/anonymizer"
	"github.com/parmahealth/parma/pkg/batch"
	"github.com/parmahealth/parma/pkg/otel"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type Anonymizer struct {
	inner   anonymizer.Processor
	tracer  trace.Tracer
	meter   metric.Meter
	metrics *metrics
}

type metrics struct {
	processLatency metric.Int64Histogram
	rows           metric.Int64Counter
}

const rowsAttributeKey = "batch_rows"

func NewAnonymizer(p anonymizer.Processor, instrumentation *otel.Instrumentation) (anonymizer.Processor, error) {
	if instrumentation == nil {
		return p, nil
	}

	a := &Anonymizer{
		inner:   p,
		tracer:  instrumentation.Tracer,
		meter:   instrumentation.Meter,
		metrics: &metrics{},
	}

	if err := a.initMetrics(); err != nil {
		return nil, fmt.Errorf("initialising anonymizer metrics: %w", err)
	}

	return a, nil
}

func (i *Anonymizer) Process(ctx context.Context, b *batch.Batch) (out *batch.Batch, err error) {
	rows := 0
	if b != nil {
		rows = b.NumRows()
	}
	ctx, span := otel.StartSpan(ctx, i.tracer, "anonymizer.Process", trace.WithAttributes(attribute.Int(rowsAttributeKey, rows)))
	defer otel.CloseSpan(span, err)

	if i.meter != nil {
		startTime := time.Now()
		defer func() {
			i.metrics.processLatency.Record(ctx, time.Since(startTime).Milliseconds())
			if err == nil {
				i.metrics.rows.Add(ctx, int64(rows))
			}
		}()
	}

	return i.inner.Process(ctx, b)
}

func (i *Anonymizer) initMetrics() error {
	if i.meter == nil {
		return nil
	}

	var err error
	i.metrics.processLatency, err = i.meter.Int64Histogram("parma.anonymizer.process.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Distribution of the time taken to anonymize a batch"))
	if err != nil {
		return err
	}

	i.metrics.rows, err = i.meter.Int64Counter("parma.anonymizer.rows",
		metric.WithUnit("rows"),
		metric.WithDescription("Number of rows anonymized"))
	if err != nil {
		return err
	}

	return nil
}
