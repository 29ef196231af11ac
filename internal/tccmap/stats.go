package tccmap

import (
	"fmt"

	"fortio.org/safecast"
)

// Stats summarizes bucket occupancy.
type Stats struct {
	Buckets     uint32  `json:"buckets" msgpack:"buckets"`
	Used        uint32  `json:"used" msgpack:"used"`
	Records     uint32  `json:"records" msgpack:"records"`
	Live        uint32  `json:"live" msgpack:"live"`
	Shadowed    uint32  `json:"shadowed" msgpack:"shadowed"`
	LongestBin  uint32  `json:"longest_bin" msgpack:"longest_bin"`
	AverageFill float64 `json:"average_fill" msgpack:"average_fill"`
}

// Stats walks every bucket and reports chain lengths.
func (m *Map) Stats() (Stats, error) {
	st := Stats{Buckets: Size}
	for i := range m.bins {
		b := m.bins[i]
		if len(b) == 0 {
			continue
		}
		n, err := safecast.Conv[uint32](len(b))
		if err != nil {
			return Stats{}, fmt.Errorf("bucket %d length overflow: %w", i, err)
		}
		live, err := safecast.Conv[uint32](countLive(b))
		if err != nil {
			return Stats{}, fmt.Errorf("bucket %d live count overflow: %w", i, err)
		}
		st.Used++
		st.Records += n
		st.Live += live
		if n > st.LongestBin {
			st.LongestBin = n
		}
	}
	st.Shadowed = st.Records - st.Live
	if st.Used > 0 {
		st.AverageFill = float64(st.Records) / float64(st.Used)
	}
	return st, nil
}
