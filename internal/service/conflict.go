package service

import (
	"sort"
	"time"

	"github.com/qs3c/boost_stream_server/internal/model"
)

// ConflictDetector 检测候选直播与已排期直播的时间冲突
type ConflictDetector struct {
	buffer time.Duration
}

func NewConflictDetector(buffer time.Duration) *ConflictDetector {
	return &ConflictDetector{buffer: buffer}
}

// Find 已排期直播的开始时间落在 [start-buffer, end+buffer] 内即视为冲突。
// 只检查对方的开始时间，不做区间相交判断。返回 ID 最小的冲突直播
func (d *ConflictDetector) Find(streams []*model.PlannedStream, start time.Time, minutes int, excludeID int64) *model.PlannedStream {
	windowStart := start.Add(-d.buffer)
	windowEnd := start.Add(time.Duration(minutes)*time.Minute + d.buffer)

	candidates := make([]*model.PlannedStream, 0, len(streams))
	for _, s := range streams {
		if s.ID == excludeID || !s.IsScheduled() {
			continue
		}
		if s.ScheduledStart.Before(windowStart) || s.ScheduledStart.After(windowEnd) {
			continue
		}
		candidates = append(candidates, s)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return candidates[0]
}

// Check 有冲突时返回 *ConflictError
func (d *ConflictDetector) Check(streams []*model.PlannedStream, start time.Time, minutes int, excludeID int64) error {
	hit := d.Find(streams, start, minutes, excludeID)
	if hit == nil {
		return nil
	}
	return &ConflictError{
		StreamID:       hit.ID,
		Title:          hit.Title,
		ScheduledStart: hit.ScheduledStart,
	}
}
