package model

type AnalyzeRequestBody struct {
	MidiBase64  string   `json:"midiBase64"`
	FileName    string   `json:"fileName"`
	FileSize    int64    `json:"fileSize"`
	Instruments []string `json:"instruments"`
}

type AnalyzeResponse struct {
	Id       string  `json:"id"`
	Summary  Summary `json:"summary"`
	Analysis string  `json:"analysis,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
