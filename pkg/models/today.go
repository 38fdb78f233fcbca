package models

// RepairLink is an ordered ayah pair queued for link drilling
type RepairLink struct {
	FromAyahID int `json:"from_ayah_id"`
	ToAyahID   int `json:"to_ayah_id"`
}

// TodayQueue lists the ayah ids selected for each practice category,
// in the order the session should run them
type TodayQueue struct {
	WarmupAyahIDs       []int        `json:"warmup_ayah_ids"`
	WeeklyGateAyahIDs   []int        `json:"weekly_gate_ayah_ids"`
	SabqiReviewAyahIDs  []int        `json:"sabqi_review_ayah_ids"`
	ManzilReviewAyahIDs []int        `json:"manzil_review_ayah_ids"`
	RepairLinks         []RepairLink `json:"repair_links"`
	NewAyahIDs          []int        `json:"new_ayah_ids"`
}

// TodayMeta exposes derived inputs for observability; callers must not
// re-derive them
type TodayMeta struct {
	MissedDays     int  `json:"missed_days"`
	WeekOne        bool `json:"week_one"`
	ReviewPoolSize int  `json:"review_pool_size"`
}

// TodayEngineResult is the full output of one "what to practice today"
// computation. It is recomputed on every request and never persisted.
type TodayEngineResult struct {
	Mode              Mode       `json:"mode"`
	ReviewDebtMinutes float64    `json:"review_debt_minutes"`
	DebtRatioPct      float64    `json:"debt_ratio_pct"`
	ReviewFloorPct    float64    `json:"review_floor_pct"`
	Retention3dAvg    float64    `json:"retention_3d_avg"`
	WarmupRequired    bool       `json:"warmup_required"`
	WeeklyGateDue     bool       `json:"weekly_gate_due"`
	MonthlyTestForced bool       `json:"monthly_test_forced"`
	NewUnlocked       bool       `json:"new_unlocked"`
	Queue             TodayQueue `json:"queue"`
	Meta              TodayMeta  `json:"meta"`
}
