package config

import (
	"time"

	"github.com/brc420-network/brc420-indexer/internal/postgres"
)

type Config struct {
	Database    string           `mapstructure:"database"` // Database to store sub-module data. Currently only "postgresql" is supported.
	Postgres    postgres.Config  `mapstructure:"postgres"`
	Datasource  DatasourceConfig `mapstructure:"datasource"`
	Indexer     IndexerConfig    `mapstructure:"indexer"`
	APIHandlers []string         `mapstructure:"api_handlers"` // API handlers to enable. Currently only "http" is supported.
}

// DatasourceConfig points at the external providers the pipeline consumes.
// Ord serves block inscription listings, inscription content, output owners
// and children listings. Mempool serves raw transactions and block stats.
type DatasourceConfig struct {
	OrdURL         string        `mapstructure:"ord_url"`
	MempoolURL     string        `mapstructure:"mempool_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type IndexerConfig struct {
	StartHeight  int64         `mapstructure:"start_height"`  // First block to index if no progress is recorded. Default is 792435.
	BatchSize    int64         `mapstructure:"batch_size"`    // Number of blocks per batch window. Default is 100.
	Workers      int           `mapstructure:"workers"`       // Parallel block workers per batch. Default is 4.
	RetryDelay   time.Duration `mapstructure:"retry_delay"`   // Initial delay before retrying a failed batch. Default is 5s.
	PollInterval time.Duration `mapstructure:"poll_interval"` // Pause before re-polling when the window is fully processed. Default is 1s.
}

const (
	DefaultStartHeight  = 792435
	DefaultBatchSize    = 100
	DefaultWorkers      = 4
	DefaultRetryDelay   = 5 * time.Second
	DefaultPollInterval = time.Second
)

// WithDefaults fills zero-valued tuning knobs with their defaults.
func (c IndexerConfig) WithDefaults() IndexerConfig {
	if c.StartHeight <= 0 {
		c.StartHeight = DefaultStartHeight
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}
