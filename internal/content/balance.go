package content

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/tatianab/student-sim/internal/models"
)

// Thresholds are the numeric bounds used by the ending classifier.
type Thresholds struct {
	DropoutWAM           int `yaml:"dropout_wam"`
	PRScore              int `yaml:"pr_score"`
	EntrepreneurMoney    int `yaml:"entrepreneur_money"`
	EntrepreneurNetwork  int `yaml:"entrepreneur_network"`
	AcademicWAM          int `yaml:"academic_wam"`
	AcademicIntelligence int `yaml:"academic_intelligence"`
	GlobalTalentMoney    int `yaml:"global_talent_money"`
	GlobalTalentWAM      int `yaml:"global_talent_wam"`
}

// Interactions holds the costs and rewards of NPC interactions.
type Interactions struct {
	ChatAP        int `yaml:"chat_ap"`
	ChatRel       int `yaml:"chat_rel"`
	ChatSanity    int `yaml:"chat_sanity"`
	GiftMoney     int `yaml:"gift_money"`
	GiftRel       int `yaml:"gift_rel"`
	DateAP        int `yaml:"date_ap"`
	DateMoney     int `yaml:"date_money"`
	DateRel       int `yaml:"date_rel"`
	DateSanity    int `yaml:"date_sanity"`
	ItemGiftRel   int `yaml:"item_gift_rel"`
	LikedTagRel   int `yaml:"liked_tag_rel"`
	DislikeTagRel int `yaml:"disliked_tag_rel"`
}

// Moves holds the costs of changing housing or region.
type Moves struct {
	HousingAP    int `yaml:"housing_ap"`
	RegionAP     int `yaml:"region_ap"`
	RegionMoney  int `yaml:"region_money"`
	RegionSanity int `yaml:"region_sanity"`
}

// Balance is the game-balance configuration. None of these numbers are
// engineering contracts; they are content and can be tuned freely.
type Balance struct {
	StartingStats   models.Stats                `yaml:"starting_stats"`
	StartingHousing string                      `yaml:"starting_housing"`
	StartingRegion  string                      `yaml:"starting_region"`
	MaxActionPoints int                         `yaml:"max_action_points"`
	QuartersPerYear int                         `yaml:"quarters_per_year"`
	WeeksPerQuarter float64                     `yaml:"weeks_per_quarter"`
	VisaDaysPerQtr  int                         `yaml:"visa_days_per_quarter"`
	VisaGraceDays   int                         `yaml:"visa_grace_days"`
	VisaValidity    map[models.VisaSubclass]int `yaml:"visa_validity"`
	Qualifying      []models.VisaSubclass       `yaml:"qualifying_subclasses"`

	RandomEventChance float64                   `yaml:"random_event_chance"`
	DebtThreshold     int                       `yaml:"debt_threshold"`
	MaxChainDepth     int                       `yaml:"max_chain_depth"`
	LogCapacity       int                       `yaml:"log_capacity"`
	CoffeeLimit       int                       `yaml:"coffee_limit"`
	GraduationEvent   string                    `yaml:"graduation_event"`
	DefaultEnding     models.EndingID           `yaml:"default_ending"`
	Thresholds        Thresholds                `yaml:"thresholds"`
	Interactions      Interactions              `yaml:"interactions"`
	Moves             Moves                     `yaml:"moves"`
	BackgroundMoney   map[models.Background]int `yaml:"background_money"`
}

// Qualifies reports whether the subclass is an immigration-qualifying one
// that survives visa expiry.
func (b *Balance) Qualifies(sc models.VisaSubclass) bool {
	for _, q := range b.Qualifying {
		if q == sc {
			return true
		}
	}
	return false
}

// Validate checks the balance for values the engine cannot work with.
func (b *Balance) Validate() error {
	el := errors.NewErrorList()

	if b.MaxActionPoints <= 0 {
		el.Add(fmt.Errorf("max_action_points must be positive"))
	}
	if b.QuartersPerYear <= 0 {
		el.Add(fmt.Errorf("quarters_per_year must be positive"))
	}
	if b.WeeksPerQuarter <= 0 {
		el.Add(fmt.Errorf("weeks_per_quarter must be positive"))
	}
	if b.VisaDaysPerQtr <= 0 {
		el.Add(fmt.Errorf("visa_days_per_quarter must be positive"))
	}
	if b.RandomEventChance < 0 || b.RandomEventChance > 1 {
		el.Add(fmt.Errorf("random_event_chance must be within [0,1]"))
	}
	if b.DebtThreshold >= 0 {
		el.Add(fmt.Errorf("debt_threshold must be negative"))
	}
	if b.MaxChainDepth <= 0 {
		el.Add(fmt.Errorf("max_chain_depth must be positive"))
	}
	if b.LogCapacity <= 0 {
		el.Add(fmt.Errorf("log_capacity must be positive"))
	}
	if b.GraduationEvent == "" {
		el.Add(fmt.Errorf("graduation_event is required"))
	}
	if b.DefaultEnding == "" {
		el.Add(fmt.Errorf("default_ending is required"))
	}

	return el.Err()
}
