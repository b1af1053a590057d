package batch

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"invoice-qc/constants"
	"invoice-qc/internal/docsrc"
	"invoice-qc/internal/entity"
	"invoice-qc/internal/extract"
	"invoice-qc/internal/validate"
)

// Processor runs extraction and single-invoice validation for a batch of
// documents across a bounded pool of workers. Per-document work is fully
// independent; the batch-scoped duplicate pass is the one synchronization
// point and runs only after every worker has finished.
type Processor struct {
	logger    *slog.Logger
	extractor *extract.Extractor
	validator *validate.Validator
	workers   int
}

type Option func(*Processor)

func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

func NewProcessor(extractor *extract.Extractor, validator *validate.Validator, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		logger:    logger,
		extractor: extractor,
		validator: validator,
		workers:   4,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process maps every input document to exactly one result: unreadable
// documents become failed-extraction results instead of being dropped, so
// the summary's accounting covers the whole batch. The returned invoices
// slice is positionally aligned with the report's results; failed slots are
// nil.
func (p *Processor) Process(ctx context.Context, docs []docsrc.Document) (*validate.BatchReport, []*entity.Invoice) {
	invoices := make([]*entity.Invoice, len(docs))
	results := make([]validate.Result, len(docs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.logger.Debug("worker started", "worker_id", workerID)
			for i := range jobs {
				invoices[i], results[i] = p.processOne(docs[i])
			}
		}(w + 1)
	}

	for i := range docs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Drain remaining slots as failed rather than aborting the run.
			results[i] = failedResult(docs[i])
			continue
		}
	}
	close(jobs)
	wg.Wait()

	p.validator.MarkDuplicates(invoices, results)
	report := &validate.BatchReport{
		Results: results,
		Summary: p.validator.Summarize(results),
	}

	p.logger.Info("batch processed",
		"documents", len(docs),
		"valid", report.Summary.ValidInvoices,
		"invalid", report.Summary.InvalidInvoices,
	)
	return report, invoices
}

func (p *Processor) processOne(doc docsrc.Document) (*entity.Invoice, validate.Result) {
	if doc.Err != "" {
		p.logger.Warn("skipping unreadable document", "doc_id", doc.ID, "path", doc.Path, "error", doc.Err)
		return nil, failedResult(doc)
	}
	// Documents arriving over HTTP skip Source's empty check; an empty text
	// is still "no document", not "zero fields found".
	if strings.TrimSpace(doc.Text) == "" {
		p.logger.Warn("skipping empty document", "doc_id", doc.ID, "path", doc.Path)
		return nil, failedResult(doc)
	}
	inv := p.extractor.ExtractText(doc.Text)
	if doc.ID != "" {
		id := doc.ID
		inv.InvoiceID = &id
	}
	return inv, p.validator.Validate(inv)
}

// failedResult is the document-level failure marker: it distinguishes
// "document unreadable" from "zero fields found" in the report.
func failedResult(doc docsrc.Document) validate.Result {
	id := doc.ID
	if id == "" {
		id = doc.Path
	}
	return validate.Result{
		InvoiceID: id,
		Errors:    []string{constants.CodeUnreadableSource},
	}
}
