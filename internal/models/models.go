package models

// Gender of the player character.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Degree is the id of a degree type in the content tables.
type Degree string

const (
	DegreeBachelor Degree = "bachelor"
	DegreeMaster   Degree = "master"
	DegreePhD      Degree = "phd"
)

// Major is the id of a field of study in the content tables.
type Major string

// Background is the socioeconomic tier the player starts from.
type Background string

const (
	BackgroundWealthy Background = "wealthy"
	BackgroundMiddle  Background = "middle"
	BackgroundWorking Background = "working"
)

// Phase is the stage of a run.
type Phase string

const (
	PhaseIntro     Phase = "intro"
	PhaseStudent   Phase = "student"
	PhaseGraduate  Phase = "graduate"
	PhaseJobSeeker Phase = "job_seeker"
	PhaseWorking   Phase = "working"
	PhasePRWaiting Phase = "pr_waiting"
	PhasePRGranted Phase = "pr_granted"
	PhaseGameOver  Phase = "game_over"
)

// Active reports whether the phase accepts gameplay actions.
func (p Phase) Active() bool {
	switch p {
	case PhaseIntro, PhaseGameOver, "":
		return false
	}
	return true
}

// VisaSubclass is an enumerated legal-status category.
type VisaSubclass string

const (
	Visa500       VisaSubclass = "subclass_500"
	Visa485       VisaSubclass = "subclass_485"
	VisaBridgingA VisaSubclass = "bridging_a"
	Visa190       VisaSubclass = "subclass_190"
	Visa189       VisaSubclass = "subclass_189"
	VisaExpired   VisaSubclass = "expired"
)

// EndingID names a terminal classification of a run.
type EndingID string

const (
	EndingPRGranted       EndingID = "pr_granted"
	EndingGlobalTalent    EndingID = "global_talent"
	EndingEntrepreneur    EndingID = "entrepreneur"
	EndingAcademic        EndingID = "academic"
	EndingForcedDeparture EndingID = "forced_departure"
	EndingDropout         EndingID = "dropout"
)

// Profile is fixed when a run starts and never changes afterwards.
type Profile struct {
	Name       string     `yaml:"name" json:"name"`
	Gender     Gender     `yaml:"gender" json:"gender"`
	Avatar     string     `yaml:"avatar,omitempty" json:"avatar,omitempty"`
	Degree     Degree     `yaml:"degree" json:"degree"`
	Major      Major      `yaml:"major" json:"major"`
	Background Background `yaml:"background" json:"background"`
}

// VisaStatus is the player's current visa and its remaining validity.
type VisaStatus struct {
	Subclass   VisaSubclass `yaml:"subclass" json:"subclass"`
	ExpiryDays int          `yaml:"expiry_days" json:"expiry_days"`
}

// Clock is the calendar and action-point budget of a run.
type Clock struct {
	Year            int `yaml:"year" json:"year"`
	Quarter         int `yaml:"quarter" json:"quarter"`
	TotalQuarters   int `yaml:"total_quarters" json:"total_quarters"`
	QuartersStudied int `yaml:"quarters_studied" json:"quarters_studied"`
	ActionPoints    int `yaml:"action_points" json:"action_points"`
	MaxActionPoints int `yaml:"max_action_points" json:"max_action_points"`
}
