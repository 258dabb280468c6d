package stats

// Summary is a one-pass description of a numeric column.
type Summary struct {
	Count        int      `json:"count"          yaml:"count"`
	Sum          float64  `json:"sum"            yaml:"sum"`
	Mean         float64  `json:"mean"           yaml:"mean"`
	Median       float64  `json:"median"         yaml:"median"`
	Mode         *float64 `json:"mode,omitempty" yaml:"mode,omitempty"`
	StdDev       float64  `json:"stddev"         yaml:"stddev"`
	SampleStdDev float64  `json:"sample_stddev"  yaml:"sample_stddev"`
	Min          float64  `json:"min"            yaml:"min"`
	Max          float64  `json:"max"            yaml:"max"`
}

// Describe summarizes values. Mode is nil when there is no unique mode.
func Describe(values []float64) Summary {
	mean, stddev := MeanStdDev(values)

	s := Summary{
		Count:        len(values),
		Sum:          Sum(values),
		Mean:         mean,
		Median:       Median(values),
		StdDev:       stddev,
		SampleStdDev: SampleStdDev(values),
		Min:          Min(values),
		Max:          Max(values),
	}

	if mode, err := Mode(values); err == nil {
		s.Mode = &mode
	}

	return s
}
