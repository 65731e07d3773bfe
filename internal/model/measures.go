package model

// Measures are the values published once per run.
type Measures struct {
	Tests               int     `yaml:"tests"`
	Errors              int     `yaml:"errors"`
	Failures            int     `yaml:"failures"`
	Skipped             int     `yaml:"skipped"`
	SuccessDensity      float64 `yaml:"success_density"`
	ExecutionTimeMillis int64   `yaml:"execution_time_ms"`
}
