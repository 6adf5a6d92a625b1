package reporting

import (
	"time"

	"github.com/robfig/cron/v3"
)

// FallbackInterval is used when a cron expression does not parse.
const FallbackInterval = 24 * time.Hour

// CronParser accepts expressions with or without a leading seconds field and
// the @daily style descriptors.
var CronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// NextRun returns the first activation of expr after from, or from plus
// FallbackInterval when expr is not a valid cron expression.
func NextRun(expr string, from time.Time) time.Time {
	sched, err := CronParser.Parse(expr)
	if err != nil {
		return from.Add(FallbackInterval)
	}

	return sched.Next(from)
}
