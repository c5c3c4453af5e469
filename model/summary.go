package model

type NoteRange struct {
	Lowest  string `json:"lowest"`
	Highest string `json:"highest"`
}

type Summary struct {
	TotalNotes         int       `json:"totalNotes"`
	UniquePitchClasses int       `json:"uniquePitches"`
	TopPitchClasses    []string  `json:"topPitchClasses"`
	NoteRange          NoteRange `json:"noteRange"`
	ChannelCount       int       `json:"channels"`
	EstimatedBars      int       `json:"estimatedBars"`
	AverageVelocity    int       `json:"avgVelocity"`

	// NOTE: only set on the degraded summary
	Error string `json:"error,omitempty"`
}
