package models

// DegreeDef describes a degree type.
type DegreeDef struct {
	ID            Degree `yaml:"id"`
	Label         string `yaml:"label"`
	DurationYears int    `yaml:"duration_years"`
	CostPerYear   int    `yaml:"cost_per_year"`
	InitialAge    int    `yaml:"initial_age"`
	Description   string `yaml:"description"`
}

// DurationQuarters is the number of studied quarters needed to graduate.
func (d DegreeDef) DurationQuarters(quartersPerYear int) int {
	return d.DurationYears * quartersPerYear
}

// MajorDef describes a field of study and its starting stat modifiers.
type MajorDef struct {
	ID            Major      `yaml:"id"`
	Label         string     `yaml:"label"`
	Modifiers     StatDeltas `yaml:"modifiers,omitempty"`
	JobDifficulty int        `yaml:"job_difficulty"`
	PRSteady      int        `yaml:"pr_steady"`
}

// HousingDef is a housing tier paid for every quarter.
type HousingDef struct {
	ID             string `yaml:"id"`
	Label          string `yaml:"label"`
	WeeklyCost     int    `yaml:"weekly_cost"`
	SanityModifier int    `yaml:"sanity_modifier"`
	Privacy        int    `yaml:"privacy"`
	Description    string `yaml:"description"`
}

// RegionDef is a place to live; it scales rent and adds a sanity modifier.
type RegionDef struct {
	ID             string  `yaml:"id"`
	Label          string  `yaml:"label"`
	RentModifier   float64 `yaml:"rent_modifier"`
	SanityModifier int     `yaml:"sanity_modifier"`
	Security       string  `yaml:"security"`
	Description    string  `yaml:"description"`
}

// AssetDef is a durable purchase that unlocks actions.
type AssetDef struct {
	ID      string     `yaml:"id"`
	Label   string     `yaml:"label"`
	Price   int        `yaml:"price"`
	Effects StatDeltas `yaml:"effects,omitempty"`
}

// NPCDef is a character the player can build a relationship with.
type NPCDef struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Title      string   `yaml:"title"`
	Category   string   `yaml:"category"`
	InitialRel int      `yaml:"initial_rel"`
	Likes      []string `yaml:"likes,omitempty"`
	Dislikes   []string `yaml:"dislikes,omitempty"`
}

// ItemCategory separates items used on purchase from items kept as gifts.
type ItemCategory string

const (
	ItemConsumable ItemCategory = "consumable"
	ItemGift       ItemCategory = "gift"
)

// ItemDef is something that can be bought.
type ItemDef struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Price       int          `yaml:"price"`
	Description string       `yaml:"description"`
	Category    ItemCategory `yaml:"category"`
	AP          int          `yaml:"ap,omitempty"`
	Effects     StatDeltas   `yaml:"effects,omitempty"`
	Tags        []string     `yaml:"tags,omitempty"`
}

// WeekendActivity may be taken once per quarter.
type WeekendActivity struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Money       int        `yaml:"money"`
	Effects     StatDeltas `yaml:"effects"`
}

// ActionRoll triggers Event when the roll for the action falls below Below.
// Rolls are checked in order.
type ActionRoll struct {
	Event string  `yaml:"event"`
	Below float64 `yaml:"below"`
}

// ActionDef is a player action offered by the dashboard views.
type ActionDef struct {
	ID            string       `yaml:"id"`
	Label         string       `yaml:"label"`
	Group         string       `yaml:"group"`
	Cost          Cost         `yaml:"cost,omitempty"`
	Effects       StatDeltas   `yaml:"effects,omitempty"`
	MoneyRoll     int          `yaml:"money_roll,omitempty"` // extra income drawn from [0, MoneyRoll)
	RequiresAsset string       `yaml:"requires_asset,omitempty"`
	Phases        []Phase      `yaml:"phases,omitempty"`
	Rolls         []ActionRoll `yaml:"rolls,omitempty"`
}

// EndingDef describes a terminal classification and its legacy reward.
type EndingDef struct {
	ID           EndingID `yaml:"id"`
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Condition    string   `yaml:"condition"`
	LegacyPoints int      `yaml:"legacy_points"`
}

// BuffDef is a cross-run bonus bought with legacy points and applied at start.
type BuffDef struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Cost        int        `yaml:"cost"`
	Stats       StatDeltas `yaml:"stats,omitempty"`
	Relations   int        `yaml:"relations,omitempty"`
}
