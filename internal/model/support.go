package model

// Mood is one of the states offered by the emotional-support triage.
type Mood string

const (
	MoodAnxious     Mood = "anxious"
	MoodSad         Mood = "sad"
	MoodStressed    Mood = "stressed"
	MoodOverwhelmed Mood = "overwhelmed"
	MoodLonely      Mood = "lonely"
	MoodAngry       Mood = "angry"
	MoodConfused    Mood = "confused"
	MoodTired       Mood = "tired"
)

// Moods lists every supported mood in display order.
var Moods = []Mood{
	MoodAnxious, MoodSad, MoodStressed, MoodOverwhelmed,
	MoodLonely, MoodAngry, MoodConfused, MoodTired,
}

// EmergencyContact is a crisis line shown on the emergency payload.
type EmergencyContact struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	Phone       string `yaml:"phone" json:"phone" validate:"required"`
	Description string `yaml:"description" json:"description"`
}

// TriageResponse is what the advisor returns. Exactly one of the templated
// sections or the emergency payload is populated.
type TriageResponse struct {
	Mood           Mood               `json:"mood"`
	Emergency      bool               `json:"emergency"`
	Immediate      string             `json:"immediate,omitempty"`
	Guidance       string             `json:"guidance,omitempty"`
	LongTerm       string             `json:"longTerm,omitempty"`
	Acknowledgment string             `json:"acknowledgment,omitempty"`
	Message        string             `json:"message,omitempty"`
	Contacts       []EmergencyContact `json:"contacts,omitempty"`
}

// EmotionalSupportSession records a completed triage. Best effort only.
type EmotionalSupportSession struct {
	BaseModel
	UserID    uint   `gorm:"index;not null" json:"userId"`
	Mood      Mood   `gorm:"size:20" json:"mood"`
	Situation string `gorm:"type:text" json:"situation"`
	Emergency bool   `json:"emergency"`
}

func (EmotionalSupportSession) TableName() string {
	return "emotional_support_sessions"
}
