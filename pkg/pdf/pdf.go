// Package pdf downloads documents and converts them to plain text.
package pdf

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Eventual-Inc/pdfagent/pkg/cache"
	"github.com/Eventual-Inc/pdfagent/pkg/logging/timing"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of parsing one document. Failures are reported in
// Status and Message rather than as Go errors.
type Result struct {
	Status      string `json:"status"`
	TextContent string `json:"text_content"`
	Message     string `json:"message"`
}

type Config struct {
	Fetcher   Fetcher
	Extractor Extractor
	Cache     cache.Cache
	Log       *logrus.Entry
}

type Parser struct {
	fetcher   Fetcher
	extractor Extractor
	cache     cache.Cache
	log       *logrus.Entry
}

func NewParser(config Config) *Parser {
	p := &Parser{
		fetcher:   config.Fetcher,
		extractor: config.Extractor,
		cache:     config.Cache,
		log:       config.Log,
	}
	if p.fetcher == nil {
		p.fetcher = &SchemeFetcher{HTTP: NewHTTPFetcher(DefaultFetchTimeout, DefaultMaxBytes)}
	}
	if p.extractor == nil {
		p.extractor = PlainTextExtractor{}
	}
	if p.cache == nil {
		p.cache = cache.Nop{}
	}
	if p.log == nil {
		p.log = logrus.NewEntry(logrus.StandardLogger())
	}
	return p
}

// Parse downloads the document at pdfURL and extracts its text. Image
// extraction is not supported; writeImages is accepted for compatibility.
func (p *Parser) Parse(ctx context.Context, pdfURL string, writeImages bool) Result {
	log := p.log.WithField("pdf_url", pdfURL)
	defer timing.Timeit(log, "parse_pdf")()

	if text, ok, err := p.cache.Get(ctx, pdfURL); err != nil {
		log.WithError(err).Warn("cache lookup failed")
	} else if ok {
		log.Debug("cache hit")
		return Result{Status: StatusSuccess, TextContent: text, Message: "Success"}
	}

	data, err := p.fetcher.Fetch(ctx, pdfURL)
	if err != nil {
		log.WithError(err).Warn("download failed")
		return Result{Status: StatusError, Message: err.Error()}
	}

	text, err := p.extractor.ExtractText(data)
	if err != nil {
		log.WithError(err).Warn("extraction failed")
		return Result{Status: StatusError, Message: err.Error()}
	}

	if err := p.cache.Set(ctx, pdfURL, text); err != nil {
		log.WithError(err).Warn("cache store failed")
	}
	log.WithField("chars", len(text)).Info("parsed pdf")
	return Result{Status: StatusSuccess, TextContent: text, Message: "Success"}
}
