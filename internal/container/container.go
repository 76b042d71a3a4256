// Package container provides dependency injection for the transfer-assistant
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fjacquet/transfer-assistant/internal/batch"
	"fjacquet/transfer-assistant/internal/config"
	"fjacquet/transfer-assistant/internal/currencyutils"
	"fjacquet/transfer-assistant/internal/generation"
	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/parser"
	"fjacquet/transfer-assistant/internal/processor"
	"fjacquet/transfer-assistant/internal/security"
	"fjacquet/transfer-assistant/internal/store"
	"fjacquet/transfer-assistant/internal/validation"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger logging.Logger
	config *config.Config

	rules        validation.RuleSet
	validator    *validation.Validator
	parser       *parser.Parser
	generator    *generation.Adapter
	processor    *processor.Processor
	orchestrator *batch.Orchestrator

	// store is nil when persistence is disabled
	store store.Repository

	closers []io.Closer
}

// NewContainer creates and wires all application dependencies, logging
// through a logrus adapter configured from cfg.Log.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDiscard(logger)

	c := &Container{logger: logger, config: cfg}

	rules := validation.DefaultRules()
	if cfg.Rules.File != "" {
		loaded, err := validation.LoadRules(cfg.Rules.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules: %w", err)
		}
		rules = loaded
		logger.Info("Loaded validation rules", logging.F(logging.FieldInputFile, cfg.Rules.File))
		for _, code := range rules.SupportedCurrencies {
			if !currencyutils.IsISOCode(code) {
				logger.Warn("Rule set lists an unrecognised currency code", logging.F(logging.FieldCurrency, code))
			}
		}
	}
	c.rules = rules
	c.validator = validation.NewValidator(rules)
	c.parser = parser.New(logger, nil)

	var client generation.TextGenerator
	if cfg.Generation.Enabled {
		gen, err := generation.NewTextGenerator(context.Background(), generation.ClientConfig{
			Provider:    cfg.Generation.Provider,
			Model:       cfg.Generation.Model,
			APIKey:      cfg.Generation.APIKey,
			Temperature: cfg.Generation.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create generation client: %w", err)
		}
		if closer, ok := gen.(io.Closer); ok {
			c.closers = append(c.closers, closer)
		}
		client = gen
		logger.Info("Generation enabled",
			logging.F(logging.FieldProvider, cfg.Generation.Provider),
			logging.F("model", cfg.Generation.Model))
	} else {
		logger.Info("Generation disabled, using pattern extraction")
	}
	c.generator = generation.NewAdapter(client, cfg.Generation.Provider, generation.Options{
		Timeout:           cfg.GenerationTimeout(),
		RequestsPerMinute: cfg.Generation.RequestsPerMinute,
	}, logger)

	c.processor = processor.New(logger, c.parser, c.validator, c.generator)
	c.orchestrator = batch.NewOrchestrator(logger, c.processor, cfg.Batch.Workers)

	if cfg.Store.Enabled {
		var sealer store.Sealer
		if cfg.Security.EncryptionKey != "" {
			enc, err := security.NewEncryptor(cfg.Security.EncryptionKey)
			if err != nil {
				return nil, fmt.Errorf("failed to create encryptor: %w", err)
			}
			sealer = security.NewProtector(enc)
		} else {
			logger.Warn("Store enabled without an encryption key, sensitive fields are kept in plaintext")
		}

		rs, err := store.Open(cfg.Store.Path, sealer, logger)
		if err != nil {
			_ = c.closeAll()
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		c.store = rs
		c.closers = append(c.closers, rs)
	}

	logger.Info("Container initialized successfully",
		logging.F(logging.FieldWorkers, c.orchestrator.Workers()),
		logging.F("generation_enabled", c.generator.Enabled()),
		logging.F("store_enabled", c.store != nil))

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRules returns a copy of the effective rule set.
func (c *Container) GetRules() validation.RuleSet {
	return c.rules.Clone()
}

// GetValidator returns the rule validator.
func (c *Container) GetValidator() *validation.Validator {
	return c.validator
}

// GetParser returns the record builder.
func (c *Container) GetParser() *parser.Parser {
	return c.parser
}

// GetGenerator returns the generation adapter. It reports OutcomeDisabled
// when generation is off.
func (c *Container) GetGenerator() *generation.Adapter {
	return c.generator
}

// GetProcessor returns the single-transaction processor.
func (c *Container) GetProcessor() *processor.Processor {
	return c.processor
}

// GetOrchestrator returns the batch orchestrator.
func (c *Container) GetOrchestrator() *batch.Orchestrator {
	return c.orchestrator
}

// GetStore returns the result store, or nil when the store is disabled.
func (c *Container) GetStore() store.Repository {
	return c.store
}

// Close releases the generation client and the store.
func (c *Container) Close() error {
	err := c.closeAll()
	c.logger.Info("Container closed")
	return err
}

func (c *Container) closeAll() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
