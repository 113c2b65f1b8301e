package cmd

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/sirupsen/logrus"

	"github.com/Eventual-Inc/pdfagent/pkg/agent"
	"github.com/Eventual-Inc/pdfagent/pkg/app"
	"github.com/Eventual-Inc/pdfagent/pkg/cache"
	"github.com/Eventual-Inc/pdfagent/pkg/config"
	"github.com/Eventual-Inc/pdfagent/pkg/function"
	"github.com/Eventual-Inc/pdfagent/pkg/function/registry"
	"github.com/Eventual-Inc/pdfagent/pkg/invocation"
	"github.com/Eventual-Inc/pdfagent/pkg/objectstorage"
	"github.com/Eventual-Inc/pdfagent/pkg/pdf"
)

// service is everything a host needs to run the configured function.
type service struct {
	app       *app.App
	functions *registry.LocalFunctionRegistry
	adapter   *invocation.Adapter
	log       *logrus.Entry
	closers   []func() error
}

// bootstrap wires the PDF parser, the agent and the app, and registers the
// app under cfg.Handler. Optional backends (redis, S3, Gemini) that are not
// configured or not reachable are skipped with a warning.
func bootstrap(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*service, error) {
	entry := logrus.NewEntry(log)
	s := &service{log: entry}

	var pdfCache cache.Cache = cache.Nop{}
	if cfg.RedisAddr != "" {
		rc, err := cache.Dial(ctx, cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			entry.WithError(err).Warn("redis unavailable, text cache disabled")
		} else {
			pdfCache = rc
			s.closers = append(s.closers, rc.Close)
		}
	}

	fetcher := &pdf.SchemeFetcher{HTTP: pdf.NewHTTPFetcher(cfg.FetchTimeout, cfg.MaxPDFBytes)}
	var awsOpts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		awsOpts = append(awsOpts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		entry.WithError(err).Warn("aws config unavailable, s3:// URLs disabled")
	} else {
		fetcher.S3 = &pdf.StoreFetcher{Store: objectstorage.NewAwsS3ObjectStore(awsCfg), MaxBytes: cfg.MaxPDFBytes}
	}

	parser := pdf.NewParser(pdf.Config{
		Fetcher: fetcher,
		Cache:   pdfCache,
		Log:     entry.WithField("component", "pdf"),
	})

	agentConfig := agent.Config{
		Tools: []agent.Tool{agent.PDFTool(parser)},
		Log:   entry.WithField("component", "agent"),
	}
	if cfg.GeminiAPIKey == "" {
		entry.Warn("GEMINI_API_KEY not set, /api/parse-pdf will fail")
	} else {
		client, err := agent.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		agentConfig.NewSession = agent.GeminiSessions(client, cfg.GeminiModel)
	}
	if cfg.APIKey == "" {
		entry.Warn("API_KEY not set, authenticated routes will reject every request")
	}

	s.app = app.New(app.Config{
		APIKey:        cfg.APIKey,
		Agent:         agent.New(agentConfig),
		Parser:        parser,
		MaxIterations: cfg.MaxIterations,
		Log:           entry.WithField("component", "app"),
	})

	s.functions = registry.NewFunctionRegistry(entry)
	if _, err := s.functions.RegisterFunction(ctx, function.FunctionDefinition{
		Name:        cfg.Handler,
		Description: "PDF parsing API",
		Handler:     s.app,
	}); err != nil {
		s.Close()
		return nil, fmt.Errorf("registering handler: %w", err)
	}
	s.adapter, err = s.functions.Lookup(cfg.Handler)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *service) Close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.log.WithError(err).Warn("error releasing resource")
		}
	}
	s.closers = nil
}
