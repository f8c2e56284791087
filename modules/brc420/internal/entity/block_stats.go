package entity

import "time"

// BlockStats summarizes what a processed block contributed to each table.
type BlockStats struct {
	BlockHeight  int64
	BlockHash    string
	Timestamp    time.Time
	TxCount      int64
	Inscriptions int64
	Deploys      int64
	Mints        int64
	Bitmaps      int64
	Parcels      int64
	Transfers    int64
	ProcessedAt  time.Time
}

// BlockCounters accumulates per-block event counts while a block is being
// processed, before they are flushed into BlockStats.
type BlockCounters struct {
	Inscriptions int64
	Deploys      int64
	Mints        int64
	Bitmaps      int64
	Parcels      int64
	Transfers    int64
}

func (c *BlockCounters) Add(other BlockCounters) {
	c.Inscriptions += other.Inscriptions
	c.Deploys += other.Deploys
	c.Mints += other.Mints
	c.Bitmaps += other.Bitmaps
	c.Parcels += other.Parcels
	c.Transfers += other.Transfers
}
