package analytics

import "time"

// DailyStat is one day's aggregate of translation activity, split by mode.
type DailyStat struct {
	Day          time.Time `json:"day"`
	Mode         string    `json:"mode"`
	Translations int64     `json:"translations"`
	GuestShare   int64     `json:"guest_share"`
}

// ExamplePhrase is a curated or harvested phrase shown on the landing page.
type ExamplePhrase struct {
	ID          int64     `json:"id"`
	Mode        string    `json:"mode"`
	Original    string    `json:"original"`
	Translation string    `json:"translation"`
	Uses        int64     `json:"uses"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary is the public stats rollup.
type Summary struct {
	TotalTranslations int64            `json:"total_translations"`
	Last7Days         int64            `json:"last_7_days"`
	ByMode            map[string]int64 `json:"by_mode"`
}
