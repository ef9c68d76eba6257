package entities

// Urgency grades how quickly a patient should seek care
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Symptom is an entry of the symptom checker's catalogue
type Symptom struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SymptomAssessment is the checker's advice for a reported set of symptoms
type SymptomAssessment struct {
	Symptoms        []string `json:"symptoms"`
	DurationDays    int      `json:"duration_days"`
	Urgency         Urgency  `json:"urgency"`
	Recommendations []string `json:"recommendations"`
	Specialists     []string `json:"specialists"`
}

// ChatReply is the assistant's answer to one message
type ChatReply struct {
	Reply    string `json:"reply"`
	Category string `json:"category"`
}
