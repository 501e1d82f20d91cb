package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/processor"
)

const (
	EnvProcessorInboxDir            = "MTP_PROCESSOR_INBOX_DIR"
	EnvProcessorProcessingDir       = "MTP_PROCESSOR_PROCESSING_DIR"
	EnvProcessorArchiveDir          = "MTP_PROCESSOR_ARCHIVE_DIR"
	EnvProcessorMaxConcurrency      = "MTP_PROCESSOR_MAX_CONCURRENCY"
	EnvProcessorSettleDelay         = "MTP_PROCESSOR_SETTLE_DELAY"
	EnvProcessorValidation          = "MTP_PROCESSOR_VALIDATION"
	EnvProcessorHallucination       = "MTP_PROCESSOR_HALLUCINATION_DETECTION"
	EnvProcessorContextAdaptation   = "MTP_PROCESSOR_CONTEXT_ADAPTATION"
	EnvProcessorConfidenceThreshold = "MTP_PROCESSOR_CONFIDENCE_THRESHOLD"
)

// ProcessorConfig carries pipeline scheduling and directory settings. The
// enable flags are pointers so a TOML false survives the defaulting pass;
// after Finalize they are always non-nil.
type ProcessorConfig struct {
	InboxDir            string  `toml:"inbox_dir"`
	ProcessingDir       string  `toml:"processing_dir"`
	ArchiveDir          string  `toml:"archive_dir"`
	MaxConcurrency      int     `toml:"max_concurrency"`
	SettleDelay         string  `toml:"settle_delay"`
	Validation          *bool   `toml:"enable_validation"`
	Hallucination       *bool   `toml:"enable_hallucination_detection"`
	ContextAdaptation   *bool   `toml:"enable_context_adaptation"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
}

// Merge overwrites non-zero fields from overlay.
func (c *ProcessorConfig) Merge(overlay *ProcessorConfig) {
	if overlay.InboxDir != "" {
		c.InboxDir = overlay.InboxDir
	}
	if overlay.ProcessingDir != "" {
		c.ProcessingDir = overlay.ProcessingDir
	}
	if overlay.ArchiveDir != "" {
		c.ArchiveDir = overlay.ArchiveDir
	}
	if overlay.MaxConcurrency != 0 {
		c.MaxConcurrency = overlay.MaxConcurrency
	}
	if overlay.SettleDelay != "" {
		c.SettleDelay = overlay.SettleDelay
	}
	if overlay.Validation != nil {
		c.Validation = overlay.Validation
	}
	if overlay.Hallucination != nil {
		c.Hallucination = overlay.Hallucination
	}
	if overlay.ContextAdaptation != nil {
		c.ContextAdaptation = overlay.ContextAdaptation
	}
	if overlay.ConfidenceThreshold != 0 {
		c.ConfidenceThreshold = overlay.ConfidenceThreshold
	}
}

// Finalize applies defaults, environment overrides, and validation.
func (c *ProcessorConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *ProcessorConfig) loadDefaults() {
	if c.InboxDir == "" {
		c.InboxDir = "data/inbox"
	}
	if c.ProcessingDir == "" {
		c.ProcessingDir = "data/processing"
	}
	if c.ArchiveDir == "" {
		c.ArchiveDir = "data/archive"
	}
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = processor.DefaultMaxConcurrency
	}
	if c.SettleDelay == "" {
		c.SettleDelay = "500ms"
	}
	enabled := true
	if c.Validation == nil {
		c.Validation = &enabled
	}
	if c.Hallucination == nil {
		c.Hallucination = &enabled
	}
	if c.ContextAdaptation == nil {
		c.ContextAdaptation = &enabled
	}
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = 0.7
	}
}

func (c *ProcessorConfig) loadEnv() {
	if v := os.Getenv(EnvProcessorInboxDir); v != "" {
		c.InboxDir = v
	}
	if v := os.Getenv(EnvProcessorProcessingDir); v != "" {
		c.ProcessingDir = v
	}
	if v := os.Getenv(EnvProcessorArchiveDir); v != "" {
		c.ArchiveDir = v
	}
	if v := os.Getenv(EnvProcessorMaxConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrency = n
		}
	}
	if v := os.Getenv(EnvProcessorSettleDelay); v != "" {
		c.SettleDelay = v
	}

	setFlag := func(envVar string, flag **bool) {
		if v := os.Getenv(envVar); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*flag = &b
			}
		}
	}
	setFlag(EnvProcessorValidation, &c.Validation)
	setFlag(EnvProcessorHallucination, &c.Hallucination)
	setFlag(EnvProcessorContextAdaptation, &c.ContextAdaptation)

	if v := os.Getenv(EnvProcessorConfidenceThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.ConfidenceThreshold = f
		}
	}
}

func (c *ProcessorConfig) validate() error {
	if c.MaxConcurrency < processor.MinConcurrency || c.MaxConcurrency > processor.MaxConcurrency {
		return fmt.Errorf("max_concurrency %d outside [%d, %d]",
			c.MaxConcurrency, processor.MinConcurrency, processor.MaxConcurrency)
	}
	if _, err := time.ParseDuration(c.SettleDelay); err != nil {
		return fmt.Errorf("invalid settle_delay: %w", err)
	}
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold %v outside (0, 1]", c.ConfidenceThreshold)
	}
	return nil
}

// SettleDelayDuration returns SettleDelay as a time.Duration.
func (c *ProcessorConfig) SettleDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.SettleDelay)
	return d
}

// ValidationEnabled reports the resolved enable_validation flag.
func (c *ProcessorConfig) ValidationEnabled() bool { return c.Validation != nil && *c.Validation }

// HallucinationEnabled reports the resolved enable_hallucination_detection flag.
func (c *ProcessorConfig) HallucinationEnabled() bool {
	return c.Hallucination != nil && *c.Hallucination
}

// ContextAdaptationEnabled reports the resolved enable_context_adaptation flag.
func (c *ProcessorConfig) ContextAdaptationEnabled() bool {
	return c.ContextAdaptation != nil && *c.ContextAdaptation
}
