// Package idhash computes deterministic identifiers for persisted
// trades and matched pairs.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"capgains/internal/domain"
)

// TradeID computes a deterministic trade identifier using SHA256.
// Formula: SHA256(instrument|date|quantity|price|synthetic|seq).
// seq disambiguates otherwise identical rows within one run (two fills
// of the same size on the same day are distinct lots).
// Returns hex-encoded hash (64 characters).
func TradeID(t *domain.Trade, seq int) string {
	data := fmt.Sprintf("%s|%s|%d|%s|%t|%d",
		t.Instrument(),
		t.Date.Format("2006-01-02"),
		t.Quantity,
		t.Price.String(),
		t.Synthetic,
		seq,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// PairID computes a deterministic identifier for a matched pair.
// Formula: SHA256(instrument|open|close|quantity|profit|seq).
func PairID(p *domain.TradePair, seq int) string {
	data := fmt.Sprintf("%s|%s|%s|%d|%s|%d",
		p.Instrument(),
		p.OpenDate.Format("2006-01-02"),
		p.CloseDate.Format("2006-01-02"),
		p.Quantity,
		p.Profit.String(),
		seq,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
