package types

type Mode string

const (
	ModeCalm  Mode = "calm"
	ModePower Mode = "power"
)

// ParseMode returns the mode named by s, or fallback when s is not a known mode.
func ParseMode(s string, fallback Mode) Mode {
	switch Mode(s) {
	case ModeCalm, ModePower:
		return Mode(s)
	}
	return fallback
}

// Door is the kind of institution being called.
type Door string

const (
	DoorDoctor    Door = "doctor"
	DoorBank      Door = "bank"
	DoorPharmacy  Door = "pharmacy"
	DoorInsurance Door = "insurance"
	DoorUtility   Door = "utility"
)

type Intent struct {
	Intent             string `json:"intent" yaml:"intent"`
	Door               Door   `json:"door" yaml:"door"`
	ProviderName       string `json:"provider_name" yaml:"provider_name"`
	ProviderPhone      string `json:"provider_phone" yaml:"provider_phone"`
	Reason             string `json:"reason" yaml:"reason"`
	TimePreference     string `json:"time_preference,omitempty" yaml:"time_preference,omitempty"`
	PrescriptionNumber string `json:"prescription_number,omitempty" yaml:"prescription_number,omitempty"`
	UserName           string `json:"user_name" yaml:"user_name"`
	Mode               Mode   `json:"mode,omitempty" yaml:"mode,omitempty"`
}

type UserProfile struct {
	Name           string   `json:"name" yaml:"name"`
	Mode           Mode     `json:"mode" yaml:"mode"`
	FavouriteThing string   `json:"favourite_thing,omitempty" yaml:"favourite_thing,omitempty"`
	DoctorName     string   `json:"doctor_name" yaml:"doctor_name"`
	DoctorPhone    string   `json:"doctor_phone" yaml:"doctor_phone"`
	BankName       string   `json:"bank_name" yaml:"bank_name"`
	BankPhone      string   `json:"bank_phone" yaml:"bank_phone"`
	PharmacyName   string   `json:"pharmacy_name" yaml:"pharmacy_name"`
	PharmacyPhone  string   `json:"pharmacy_phone" yaml:"pharmacy_phone"`
	InsuranceName  string   `json:"insurance_name" yaml:"insurance_name"`
	InsurancePhone string   `json:"insurance_phone" yaml:"insurance_phone"`
	UtilityName    string   `json:"utility_name" yaml:"utility_name"`
	UtilityPhone   string   `json:"utility_phone" yaml:"utility_phone"`
	PreferredTime  string   `json:"preferred_time" yaml:"preferred_time"`
	PreferredDays  []string `json:"preferred_days" yaml:"preferred_days"`
	CaregiverName  string   `json:"caregiver_name,omitempty" yaml:"caregiver_name,omitempty"`
	CaregiverPhone string   `json:"caregiver_phone,omitempty" yaml:"caregiver_phone,omitempty"`
}

type CallStatus string

const (
	CallInProgress CallStatus = "in_progress"
	CallCompleted  CallStatus = "completed"
	CallFailed     CallStatus = "failed"
)

type CallResult struct {
	CallID  string     `json:"callId"`
	Status  CallStatus `json:"status"`
	Message string     `json:"message"`
	Mode    Mode       `json:"mode"`
}

type Speaker string

const (
	SpeakerAgent          Speaker = "agent"
	SpeakerRepresentative Speaker = "representative"
)

// TranscriptLine is one speaker turn.
type TranscriptLine struct {
	Speaker   Speaker `json:"speaker"`
	Text      string  `json:"text"`
	Timestamp string  `json:"timestamp,omitempty"`
}
