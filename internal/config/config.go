package config

const (
	// Head office branch, used when nothing else resolves.
	HeadOfficeBranch = "001"

	// Sentinel default meaning "infer the branch per row".
	MultiBranchSentinel = "MULTI"

	// Upload boundary.
	MaxUploadBytes = 100 * 1024 * 1024

	// Staging / validation workflow.
	SessionSampleLimit = 100
	ErrorSampleLimit   = 10
	RetentionDays      = 30
	StagingBatchSize   = 500

	// Retention sweep schedule (robfig/cron spec).
	DefaultSweepSchedule = "0 2 * * *"
	DefaultTimeZone      = "Indian/Comoro"
)
