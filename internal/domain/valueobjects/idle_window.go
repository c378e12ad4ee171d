package valueobjects

import (
	"errors"
	"fmt"
	"time"
)

// 默认闲时时间段
const (
	DefaultIdleStart = "23:00"
	DefaultIdleEnd   = "07:00"
)

// ErrInvalidTimeFormat 时间格式错误
var ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

// IdleWindow 闲时时间段值对象
// 不可变,表示一天内的[start, end]时间段;
// start > end 时表示跨越午夜(如23:00-07:00)
type IdleWindow struct {
	start string
	end   string

	startMinute int
	endMinute   int
}

// NewIdleWindow 创建闲时时间段
// start/end 必须为 HH:MM 格式
func NewIdleWindow(start, end string) (IdleWindow, error) {
	startMinute, err := parseMinuteOfDay(start)
	if err != nil {
		return IdleWindow{}, fmt.Errorf("%w: %s", ErrInvalidTimeFormat, start)
	}
	endMinute, err := parseMinuteOfDay(end)
	if err != nil {
		return IdleWindow{}, fmt.Errorf("%w: %s", ErrInvalidTimeFormat, end)
	}
	return IdleWindow{
		start:       start,
		end:         end,
		startMinute: startMinute,
		endMinute:   endMinute,
	}, nil
}

// DefaultIdleWindow 返回默认的23:00-07:00闲时段
func DefaultIdleWindow() IdleWindow {
	w, _ := NewIdleWindow(DefaultIdleStart, DefaultIdleEnd)
	return w
}

// Start 开始时间(HH:MM)
func (w IdleWindow) Start() string { return w.start }

// End 结束时间(HH:MM)
func (w IdleWindow) End() string { return w.end }

// WrapsMidnight 是否跨越午夜
func (w IdleWindow) WrapsMidnight() bool {
	return w.startMinute > w.endMinute
}

// Contains 判断给定时刻是否在闲时段内(含两端)
func (w IdleWindow) Contains(now time.Time) bool {
	minute := now.Hour()*60 + now.Minute()
	if !w.WrapsMidnight() {
		return w.startMinute <= minute && minute <= w.endMinute
	}
	return minute >= w.startMinute || minute <= w.endMinute
}

// String 格式化为 "HH:MM - HH:MM"
func (w IdleWindow) String() string {
	return w.start + " - " + w.end
}

func parseMinuteOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
