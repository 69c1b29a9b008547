package analytics

import "time"

// Config holds the thresholds used by the aggregates.
type Config struct {
	RepeatThreshold int              // Orders a customer must exceed to count as repeat
	ChurnMonths     int              // Inactivity window for churn
	Quintiles       int              // RFM buckets per dimension
	TopN            int              // Rows kept by Pareto and product performance
	Now             func() time.Time // Clock for recency and churn; nil uses time.Now
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{RepeatThreshold: 3, ChurnMonths: 3, Quintiles: 5, TopN: 10}
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Config) today() time.Time {
	t := c.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RepeatThreshold < 0 {
		c.RepeatThreshold = d.RepeatThreshold
	}
	if c.ChurnMonths <= 0 {
		c.ChurnMonths = d.ChurnMonths
	}
	if c.Quintiles <= 0 {
		c.Quintiles = d.Quintiles
	}
	if c.TopN <= 0 {
		c.TopN = d.TopN
	}
	return c
}
