package driver

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/spaolacci/murmur3"
)

// Result summarizes a finished run.
type Result struct {
	RunID        string        `json:"run_id" yaml:"run_id"`
	Writers      int           `json:"writers" yaml:"writers"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
	Elapsed      time.Duration `json:"elapsed" yaml:"elapsed"`
	TotalUpdates uint64        `json:"total_updates" yaml:"total_updates"`
	PerWriter    []uint64      `json:"per_writer" yaml:"per_writer"`
	Throughput   float64       `json:"throughput" yaml:"throughput"`
	CleanScans   uint64        `json:"clean_scans" yaml:"clean_scans"`
	StolenScans  uint64        `json:"stolen_scans" yaml:"stolen_scans"`
	FinalView    []int         `json:"final_view" yaml:"final_view"`
	ViewDigest   string        `json:"view_digest" yaml:"view_digest"`
	StoppedEarly bool          `json:"stopped_early" yaml:"stopped_early"`
}

// Plain returns the total update count, the run's bare output.
func (r *Result) Plain() string {
	return strconv.FormatUint(r.TotalUpdates, 10)
}

// Digest returns the hex murmur3 64-bit hash of a view. Payloads are
// hashed as little-endian int64 so the digest does not depend on the
// platform int size.
func Digest(view []int) string {
	buf := make([]byte, 0, 8*len(view))
	for _, v := range view {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(v)))
	}
	return fmt.Sprintf("%016x", murmur3.Sum64(buf))
}
