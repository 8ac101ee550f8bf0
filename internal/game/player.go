package game

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/pixil98/go-wilds/internal/skills"
	"github.com/pixil98/go-wilds/internal/world"
)

// Effect tags maintained by the passive vitals step.
const (
	EffectHungry     = "hungry"
	EffectThirsty    = "thirsty"
	EffectStarving   = "starving"
	EffectDehydrated = "dehydrated"
	EffectExhausted  = "exhausted"
)

// exhaustedFraction of max stamina below which a player is exhausted.
const exhaustedFraction = 0.1

// Vitals are a player's bounded survival meters.
type Vitals struct {
	Health     float64 `json:"health"`
	MaxHealth  float64 `json:"max_health"`
	Stamina    float64 `json:"stamina"`
	MaxStamina float64 `json:"max_stamina"`
	Hunger     float64 `json:"hunger"`
	MaxHunger  float64 `json:"max_hunger"`
	Thirst     float64 `json:"thirst"`
	MaxThirst  float64 `json:"max_thirst"`
}

func fullVitals(t Tuning) Vitals {
	return Vitals{
		Health:     t.MaxHealth,
		MaxHealth:  t.MaxHealth,
		Stamina:    t.MaxStamina,
		MaxStamina: t.MaxStamina,
		Hunger:     t.MaxHunger,
		MaxHunger:  t.MaxHunger,
		Thirst:     t.MaxThirst,
		MaxThirst:  t.MaxThirst,
	}
}

// clamp forces every meter into [0, max]. Maxima come from tuning, not from
// whatever was saved.
func (v Vitals) clamp(t Tuning) Vitals {
	v.MaxHealth, v.MaxStamina, v.MaxHunger, v.MaxThirst = t.MaxHealth, t.MaxStamina, t.MaxHunger, t.MaxThirst
	v.Health = bound(v.Health, v.MaxHealth)
	v.Stamina = bound(v.Stamina, v.MaxStamina)
	v.Hunger = bound(v.Hunger, v.MaxHunger)
	v.Thirst = bound(v.Thirst, v.MaxThirst)
	return v
}

func bound(v, hi float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, hi)
}

// PlayerData is the persisted form of a PlayerState.
type PlayerData struct {
	Vitals    Vitals                   `json:"vitals"`
	Effects   []string                 `json:"effects,omitempty"`
	Inventory map[string]Item          `json:"inventory,omitempty"`
	Skills    map[skills.Skill]float64 `json:"skills,omitempty"`
	SavedAt   time.Time                `json:"saved_at"`
}

// PlayerState is the live in-memory state of a connected player.
type PlayerState struct {
	id      string
	session Session

	Inventory *Inventory
	Skills    *skills.SkillSet

	mu           sync.Mutex
	vitals       Vitals
	effects      map[string]struct{}
	windowCenter world.Coord
}

func newPlayerState(id string, sess Session, t Tuning) *PlayerState {
	return &PlayerState{
		id:        id,
		session:   sess,
		Inventory: NewInventory(),
		Skills:    skills.NewSkillSet(),
		vitals:    fullVitals(t),
		effects:   make(map[string]struct{}),
	}
}

func (p *PlayerState) ID() string {
	return p.id
}

func (p *PlayerState) Session() Session {
	return p.session
}

// Vitals returns a snapshot of the player's meters.
func (p *PlayerState) Vitals() Vitals {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vitals
}

// HasEffect reports whether tag is currently applied.
func (p *PlayerState) HasEffect(tag string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.effects[tag]
	return ok
}

// AddEffect applies tag. It reports whether the tag was newly added.
func (p *PlayerState) AddEffect(tag string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setEffect(tag, true)
}

// RemoveEffect clears tag. It reports whether the tag was present.
func (p *PlayerState) RemoveEffect(tag string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.effects[tag]
	delete(p.effects, tag)
	return ok
}

// Effects returns the applied tags in sorted order.
func (p *PlayerState) Effects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sortedEffects()
}

func (p *PlayerState) sortedEffects() []string {
	out := make([]string, 0, len(p.effects))
	for k := range p.effects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// setEffect must be called with mu held. It reports whether on added a tag
// that was not already present.
func (p *PlayerState) setEffect(tag string, on bool) bool {
	_, had := p.effects[tag]
	if on {
		p.effects[tag] = struct{}{}
		return !had
	}
	delete(p.effects, tag)
	return false
}

// SpendStamina deducts cost if the player has that much stamina left.
func (p *PlayerState) SpendStamina(cost float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.vitals.Stamina < cost {
		return false
	}
	p.vitals.Stamina -= cost
	return true
}

// Eat restores hunger, capped at max.
func (p *PlayerState) Eat(amount float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vitals.Hunger = bound(p.vitals.Hunger+amount, p.vitals.MaxHunger)
}

// Drink restores thirst, capped at max.
func (p *PlayerState) Drink(amount float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vitals.Thirst = bound(p.vitals.Thirst+amount, p.vitals.MaxThirst)
}

// PassiveStep advances the player's vitals by one gameplay tick and returns
// the effect tags it newly applied.
func (p *PlayerState) PassiveStep(t Tuning) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := &p.vitals
	v.Stamina = bound(v.Stamina+t.StaminaRegen, v.MaxStamina)
	v.Hunger = bound(v.Hunger-t.HungerDecay, v.MaxHunger)
	v.Thirst = bound(v.Thirst-t.ThirstDecay, v.MaxThirst)

	starving := v.Hunger == 0
	dehydrated := v.Thirst == 0
	if starving {
		v.Health = bound(v.Health-t.DepletionDamage, v.MaxHealth)
	}
	if dehydrated {
		v.Health = bound(v.Health-t.DepletionDamage, v.MaxHealth)
	}

	var added []string
	for _, e := range []struct {
		tag string
		on  bool
	}{
		{EffectHungry, v.Hunger < t.HungryThreshold},
		{EffectThirsty, v.Thirst < t.ThirstyThreshold},
		{EffectStarving, starving},
		{EffectDehydrated, dehydrated},
		{EffectExhausted, v.Stamina < v.MaxStamina*exhaustedFraction},
	} {
		if p.setEffect(e.tag, e.on) {
			added = append(added, e.tag)
		}
	}
	return added
}

// Data captures the persistable parts of the player.
func (p *PlayerState) Data() *PlayerData {
	p.mu.Lock()
	d := &PlayerData{
		Vitals:  p.vitals,
		Effects: p.sortedEffects(),
	}
	p.mu.Unlock()

	d.Inventory = p.Inventory.Items()
	d.Skills = p.Skills.Levels()
	return d
}

// apply overwrites the player's state with saved data.
func (p *PlayerState) apply(d *PlayerData, t Tuning) {
	p.mu.Lock()
	p.vitals = d.Vitals.clamp(t)
	p.effects = make(map[string]struct{}, len(d.Effects))
	for _, e := range d.Effects {
		p.effects[e] = struct{}{}
	}
	p.mu.Unlock()

	p.Inventory.replace(d.Inventory)
	for sk, lvl := range d.Skills {
		p.Skills.Set(sk, lvl)
	}
}

func (p *PlayerState) WindowCenter() world.Coord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.windowCenter
}

// swapWindowCenter records c as the window center and reports whether it
// differs from the previous one.
func (p *PlayerState) swapWindowCenter(c world.Coord) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.windowCenter == c {
		return false
	}
	p.windowCenter = c
	return true
}

func (p *PlayerState) setWindowCenter(c world.Coord) {
	p.mu.Lock()
	p.windowCenter = c
	p.mu.Unlock()
}
