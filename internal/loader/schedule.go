package loader

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер cron-выражений (5 полей или @every/@hourly).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule строит расписание сканирования.
// Если cronExpr задан, используется он; иначе — фиксированный интервал.
func ParseSchedule(cronExpr string, interval time.Duration) (cron.Schedule, error) {
	if cronExpr != "" {
		schedule, err := cronParser.Parse(cronExpr)
		if err != nil {
			return nil, fmt.Errorf("parse cron expression %q: %w", cronExpr, err)
		}
		return schedule, nil
	}

	if interval < time.Second {
		return nil, fmt.Errorf("scan interval must be at least 1s, got %v", interval)
	}

	return cron.Every(interval), nil
}
