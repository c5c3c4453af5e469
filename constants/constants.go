package constants

import "os"

func getEnvOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetPort() string {
	return getEnvOr("PORT", "8080")
}

// GetFeedbackAPIKey returns "" when feedback generation is not configured.
func GetFeedbackAPIKey() string {
	return os.Getenv("FEEDBACK_API_KEY")
}

func GetFeedbackAPIURL() string {
	return getEnvOr("FEEDBACK_API_URL", "https://ai.gateway.lovable.dev/v1/chat/completions")
}

func GetFeedbackModel() string {
	return getEnvOr("FEEDBACK_MODEL", "google/gemini-3-flash-preview")
}

func GetDynamoEndpoint() string {
	return os.Getenv("DYNAMODB_ENDPOINT")
}

func GetDynamoRegion() string {
	return getEnvOr("DYNAMODB_REGION", "localhost")
}

func GetDynamoTable() string {
	return getEnvOr("DYNAMODB_TABLE", "midicritic-analyses")
}

// PersistenceEnabled is true once either DynamoDB variable has been set.
func PersistenceEnabled() bool {
	return os.Getenv("DYNAMODB_ENDPOINT") != "" || os.Getenv("DYNAMODB_TABLE") != ""
}

// 480 ticks per quarter note * 4 beats. The header's division field is
// deliberately ignored.
const TicksPerBar = 1920

const TopPitchClassLimit = 7

var PitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

const UnparseableMessage = "Could not parse MIDI file structure"
