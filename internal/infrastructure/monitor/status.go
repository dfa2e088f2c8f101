package monitor

import "time"

type Status struct {
	PostgreSQL   bool      `json:"postgresql"`
	Redis        bool      `json:"redis"`
	Throttle     bool      `json:"throttle"`
	ThrottleKeys int       `json:"throttle_keys"`
	LastCheck    time.Time `json:"last_check"`
}
