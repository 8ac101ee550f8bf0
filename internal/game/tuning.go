package game

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

// Tuning holds the vitals constants. Rates are applied once per gameplay
// tick.
type Tuning struct {
	MaxHealth  float64 `yaml:"max_health"`
	MaxStamina float64 `yaml:"max_stamina"`
	MaxHunger  float64 `yaml:"max_hunger"`
	MaxThirst  float64 `yaml:"max_thirst"`

	StaminaRegen float64 `yaml:"stamina_regen"`
	HungerDecay  float64 `yaml:"hunger_decay"`
	ThirstDecay  float64 `yaml:"thirst_decay"`

	// Below these values the hungry and thirsty effects are applied.
	HungryThreshold  float64 `yaml:"hungry_threshold"`
	ThirstyThreshold float64 `yaml:"thirsty_threshold"`

	// Health lost per tick while starving or dehydrated, each.
	DepletionDamage float64 `yaml:"depletion_damage"`

	PracticeStaminaCost float64 `yaml:"practice_stamina_cost"`
}

// DefaultTuning is tuned for a 50ms tick: stamina refills in about five
// seconds, hunger empties in about an hour and a half.
func DefaultTuning() Tuning {
	return Tuning{
		MaxHealth:           100,
		MaxStamina:          100,
		MaxHunger:           100,
		MaxThirst:           100,
		StaminaRegen:        1,
		HungerDecay:         0.001,
		ThirstDecay:         0.0015,
		HungryThreshold:     25,
		ThirstyThreshold:    25,
		DepletionDamage:     0.005,
		PracticeStaminaCost: 10,
	}
}

// LoadTuning reads a YAML file over the defaults. Keys absent from the file
// keep their default values.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()

	b, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("reading tuning file: %w", err)
	}
	if err := yaml.Unmarshal(b, &t); err != nil {
		return t, fmt.Errorf("parsing tuning file %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("validating tuning file %s: %w", path, err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	el := errors.NewErrorList()

	maxes := map[string]float64{
		"max_health":  t.MaxHealth,
		"max_stamina": t.MaxStamina,
		"max_hunger":  t.MaxHunger,
		"max_thirst":  t.MaxThirst,
	}
	for name, v := range maxes {
		if v <= 0 {
			el.Add(fmt.Errorf("%s must be positive", name))
		}
	}

	rates := map[string]float64{
		"stamina_regen":         t.StaminaRegen,
		"hunger_decay":          t.HungerDecay,
		"thirst_decay":          t.ThirstDecay,
		"depletion_damage":      t.DepletionDamage,
		"practice_stamina_cost": t.PracticeStaminaCost,
	}
	for name, v := range rates {
		if v < 0 {
			el.Add(fmt.Errorf("%s must not be negative", name))
		}
	}

	if t.HungryThreshold < 0 || t.HungryThreshold > t.MaxHunger {
		el.Add(fmt.Errorf("hungry_threshold must be between 0 and max_hunger"))
	}
	if t.ThirstyThreshold < 0 || t.ThirstyThreshold > t.MaxThirst {
		el.Add(fmt.Errorf("thirsty_threshold must be between 0 and max_thirst"))
	}

	return el.Err()
}
