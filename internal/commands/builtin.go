package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pixil98/go-wilds/internal/display"
	"github.com/pixil98/go-wilds/internal/game"
	"github.com/pixil98/go-wilds/internal/skills"
	"github.com/pixil98/go-wilds/internal/world"
)

const (
	// maxStep is the furthest a single move command may travel on each axis.
	maxStep = float64(world.ChunkSize)

	defaultBaseQuality = 50
	drinkAmount        = 30
)

// foods maps edible item names to the hunger they restore.
var foods = map[string]float64{
	"berries": 10,
	"fish":    25,
}

// World is the slice of the game server the built-in commands use.
type World interface {
	Player(playerID string) (*game.PlayerState, bool)
	PlayerIDs() []string
	BlockAt(pos world.Position) (uint16, bool)
	Practice(playerID string, skill skills.Skill, difficulty, baseQuality float64) (game.PracticeResult, error)
	Craft(playerID string, primary skills.Skill, difficulty, baseQuality, toolQuality float64) (game.PracticeResult, error)
}

// Mover changes a player's position.
type Mover interface {
	Move(playerID string, dx, dz float64) (world.Position, error)
}

const statusTemplate = `{{ .Name | title }}
  Health   {{ bar .Vitals.Health .Vitals.MaxHealth 20 }} {{ printf "%.0f" .Vitals.Health }}
  Stamina  {{ bar .Vitals.Stamina .Vitals.MaxStamina 20 }} {{ printf "%.0f" .Vitals.Stamina }}
  Hunger   {{ bar .Vitals.Hunger .Vitals.MaxHunger 20 }} {{ printf "%.0f" .Vitals.Hunger }}
  Thirst   {{ bar .Vitals.Thirst .Vitals.MaxThirst 20 }} {{ printf "%.0f" .Vitals.Thirst }}
{{- if .Effects }}
  You are {{ join ", " .Effects }}.
{{- end }}`

const skillsTemplate = `{{ range .Skills }}{{ printf "%-14s %6.2f" .Name .Level }}
{{ end }}`

// RegisterBuiltins adds the standard player commands to h.
func RegisterBuiltins(h *Handler, w World, m Mover) error {
	cmds := []*Command{
		{Name: "look", Aliases: []string{"l"}, Help: "Describe your surroundings.", Run: lookCmd(w)},
		{Name: "status", Aliases: []string{"st", "score"}, Help: "Show your vitals and effects.", Run: statusCmd},
		{Name: "skills", Help: "List your skill levels.", Run: skillsCmd},
		{Name: "inventory", Aliases: []string{"i", "inv"}, Help: "List what you carry.", Run: inventoryCmd},
		{
			Name: "move", Aliases: []string{"go"}, Help: "Walk by dx, dz blocks.",
			Inputs: []InputSpec{
				{Name: "dx", Type: InputTypeDecimal, Required: true},
				{Name: "dz", Type: InputTypeDecimal, Required: true},
			},
			Run: moveCmd(m),
		},
		{
			Name: "practice", Help: "Train a skill against a task of the given difficulty.",
			Inputs: []InputSpec{
				{Name: "skill", Type: InputTypeSkill, Required: true},
				{Name: "difficulty", Type: InputTypeDecimal, Required: true},
			},
			Run: practiceCmd(w),
		},
		{
			Name: "craft", Help: "Make something with a tool of the given quality.",
			Inputs: []InputSpec{
				{Name: "skill", Type: InputTypeSkill, Required: true},
				{Name: "difficulty", Type: InputTypeDecimal, Required: true},
				{Name: "tool", Type: InputTypeDecimal, Required: true},
			},
			Run: craftCmd(w),
		},
		{Name: "forage", Help: "Search the area for berries.", Run: forageCmd(w)},
		{
			Name: "eat", Help: "Eat something you carry.",
			Inputs: []InputSpec{{Name: "item", Type: InputTypeString, Required: true, Rest: true}},
			Run:    eatCmd,
		},
		{Name: "drink", Help: "Drink from water you are standing in.", Run: drinkCmd(w)},
		{Name: "who", Help: "List connected players.", Run: whoCmd(w)},
		{Name: "quit", Help: "Save and leave the world.", Run: quitCmd},
	}
	cmds = append(cmds, &Command{
		Name: "help", Aliases: []string{"?"}, Help: "List commands.",
		Inputs: []InputSpec{{Name: "command", Type: InputTypeString}},
		Run:    helpCmd(h),
	})

	for _, c := range cmds {
		if err := h.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func lookCmd(w World) CommandFunc {
	return func(_ context.Context, c *CommandContext) (string, error) {
		pos := c.Player.Session().Position()
		chunk := world.ChunkCoordOf(pos)

		var b strings.Builder
		fmt.Fprintf(&b, "You are at (%.1f, %.1f) in chunk %s.", pos.X, pos.Z, chunk)
		if block, ok := w.BlockAt(pos); ok {
			fmt.Fprintf(&b, " The ground here is %s.", world.BlockName(block))
		}
		return b.String(), nil
	}
}

func statusCmd(_ context.Context, c *CommandContext) (string, error) {
	return display.Render(statusTemplate, map[string]any{
		"Name":    c.PlayerID,
		"Vitals":  c.Player.Vitals(),
		"Effects": c.Player.Effects(),
	})
}

func skillsCmd(_ context.Context, c *CommandContext) (string, error) {
	type row struct {
		Name  string
		Level float64
	}
	rows := make([]row, 0, len(skills.Known))
	for _, sk := range skills.Known {
		rows = append(rows, row{Name: string(sk), Level: c.Player.Skills.Get(sk)})
	}
	out, err := display.Render(skillsTemplate, map[string]any{"Skills": rows})
	return strings.TrimRight(out, "\n"), err
}

func inventoryCmd(_ context.Context, c *CommandContext) (string, error) {
	inv := c.Player.Inventory
	names := inv.Names()
	if len(names) == 0 {
		return "You are carrying nothing.", nil
	}

	items := inv.Items()
	lines := []string{"You are carrying:"}
	for _, n := range names {
		lines = append(lines, fmt.Sprintf("  %3d x %s", items[n].Count, n))
	}
	lines = append(lines, fmt.Sprintf("Total weight: %.1f", inv.TotalWeight()))
	return strings.Join(lines, "\n"), nil
}

func moveCmd(m Mover) CommandFunc {
	return func(_ context.Context, c *CommandContext) (string, error) {
		dx, dz := c.Decimal("dx"), c.Decimal("dz")
		if math.Abs(dx) > maxStep || math.Abs(dz) > maxStep {
			return "", UserErrorf("You can't travel more than %.0f blocks at once.", maxStep)
		}
		pos, err := m.Move(c.PlayerID, dx, dz)
		if err != nil {
			return "", fmt.Errorf("moving %s: %w", c.PlayerID, err)
		}
		return fmt.Sprintf("You walk to (%.1f, %.1f).", pos.X, pos.Z), nil
	}
}

func practiceCmd(w World) CommandFunc {
	return func(_ context.Context, c *CommandContext) (string, error) {
		sk := c.Skill("skill")
		res, err := w.Practice(c.PlayerID, sk, c.Decimal("difficulty"), defaultBaseQuality)
		if err != nil {
			return "", actionError(err)
		}
		return fmt.Sprintf("You practice %s. Skill %.2f, quality %.1f.", sk, res.Level, res.Quality), nil
	}
}

func craftCmd(w World) CommandFunc {
	return func(_ context.Context, c *CommandContext) (string, error) {
		sk := c.Skill("skill")
		tool := c.Decimal("tool")
		if tool < skills.MinQuality || tool > skills.MaxQuality {
			return "", UserErrorf("Tool quality must be between %.0f and %.0f.", skills.MinQuality, skills.MaxQuality)
		}
		res, err := w.Craft(c.PlayerID, sk, c.Decimal("difficulty"), defaultBaseQuality, tool)
		if err != nil {
			return "", actionError(err)
		}
		return fmt.Sprintf("You craft with %s. Skill %.2f, quality %.1f.", sk, res.Level, res.Quality), nil
	}
}

func forageCmd(w World) CommandFunc {
	return func(_ context.Context, c *CommandContext) (string, error) {
		res, err := w.Practice(c.PlayerID, skills.Foraging, 1, defaultBaseQuality)
		if err != nil {
			return "", actionError(err)
		}
		if err := c.Player.Inventory.Add("berries", 1, 0.1); err != nil {
			return "", err
		}
		return fmt.Sprintf("You find some berries. Foraging %.2f.", res.Level), nil
	}
}

func eatCmd(_ context.Context, c *CommandContext) (string, error) {
	item := strings.ToLower(c.String("item"))
	amount, ok := foods[item]
	if !ok {
		return "", UserErrorf("You can't eat %s.", item)
	}
	if err := c.Player.Inventory.Remove(item, 1); err != nil {
		return "", UserErrorf("You don't have any %s.", item)
	}
	c.Player.Eat(amount)
	return fmt.Sprintf("You eat the %s.", item), nil
}

func drinkCmd(w World) CommandFunc {
	return func(_ context.Context, c *CommandContext) (string, error) {
		block, ok := w.BlockAt(c.Player.Session().Position())
		if !ok || block != world.BlockWater {
			return "", NewUserError("There is no water here.")
		}
		c.Player.Drink(drinkAmount)
		return "You drink deeply.", nil
	}
}

func whoCmd(w World) CommandFunc {
	return func(_ context.Context, _ *CommandContext) (string, error) {
		ids := w.PlayerIDs()
		return fmt.Sprintf("%d player(s) online: %s", len(ids), strings.Join(ids, ", ")), nil
	}
}

func quitCmd(_ context.Context, _ *CommandContext) (string, error) {
	return "Goodbye!", ErrQuit
}

func helpCmd(h *Handler) CommandFunc {
	return func(_ context.Context, c *CommandContext) (string, error) {
		if c.Has("command") {
			cmd, ok := h.Lookup(c.String("command"))
			if !ok {
				return "", UserErrorf("No help for %q.", c.String("command"))
			}
			return fmt.Sprintf("%s\n  %s", cmd.Usage(), cmd.Help), nil
		}

		lines := []string{"Commands:"}
		for _, cmd := range h.Commands() {
			lines = append(lines, fmt.Sprintf("  %-28s %s", cmd.Usage(), cmd.Help))
		}
		return strings.Join(lines, "\n"), nil
	}
}

// actionError turns the game's expected refusals into messages for the player.
func actionError(err error) error {
	switch {
	case errors.Is(err, game.ErrExhausted):
		return NewUserError("You are too exhausted.")
	case errors.Is(err, game.ErrPlayerNotFound):
		return NewUserError("You are not in the world.")
	}
	return err
}
