package status

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// Usage is the capacity of the volume holding a path.
type Usage struct {
	Path        string  `json:"path"`
	Fstype      string  `json:"fstype,omitempty"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
}

// Read queries the volume that contains path.
func Read(ctx context.Context, path string) (*Usage, error) {
	st, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read volume usage for %s: %w", path, err)
	}
	return &Usage{
		Path:        path,
		Fstype:      st.Fstype,
		Total:       st.Total,
		Used:        st.Used,
		Free:        st.Free,
		UsedPercent: st.UsedPercent,
	}, nil
}

// Volumes reads every mounted physical volume. Volumes that cannot be queried
// are skipped.
func Volumes(ctx context.Context) ([]*Usage, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}
	seen := make(map[string]bool, len(parts))
	var out []*Usage
	for _, p := range parts {
		if seen[p.Mountpoint] {
			continue
		}
		seen[p.Mountpoint] = true
		u, err := Read(ctx, p.Mountpoint)
		if err != nil || u.Total == 0 {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}
