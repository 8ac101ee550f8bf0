package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-wilds/internal/game"
	"github.com/pixil98/go-wilds/internal/skills"
)

// InputType represents the type of a command input parameter.
type InputType string

const (
	InputTypeString  InputType = "string"  // Single word, or the rest of the line if Rest is set
	InputTypeNumber  InputType = "number"  // Integer
	InputTypeDecimal InputType = "decimal" // Floating point
	InputTypeSkill   InputType = "skill"   // A known skill name
)

// InputSpec defines an input parameter that a command accepts from user input.
type InputSpec struct {
	Name     string
	Type     InputType
	Required bool
	Rest     bool // If true, captures all remaining input
}

// CommandFunc runs a command and returns the text to show the player.
type CommandFunc func(ctx context.Context, cmdCtx *CommandContext) (string, error)

// Command is a named player action.
type Command struct {
	Name    string
	Aliases []string
	Help    string
	Inputs  []InputSpec
	Run     CommandFunc
}

func (c *Command) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("command name not set")
	}
	if c.Run == nil {
		return fmt.Errorf("command %q: run func not set", c.Name)
	}

	for i, input := range c.Inputs {
		if input.Name == "" {
			return fmt.Errorf("command %q: input %d: name is required", c.Name, i)
		}
		if input.Type == "" {
			return fmt.Errorf("command %q: input %q: type is required", c.Name, input.Name)
		}
		if input.Rest && i != len(c.Inputs)-1 {
			return fmt.Errorf("command %q: input %q: only the last input may be rest", c.Name, input.Name)
		}
	}
	return nil
}

// Usage renders the command's argument synopsis, e.g. "move <dx> <dz>".
func (c *Command) Usage() string {
	parts := []string{c.Name}
	for _, in := range c.Inputs {
		if in.Required {
			parts = append(parts, "<"+in.Name+">")
		} else {
			parts = append(parts, "["+in.Name+"]")
		}
	}
	return strings.Join(parts, " ")
}

// CommandContext is everything a command needs to act for one player.
type CommandContext struct {
	PlayerID string
	Player   *game.PlayerState
	Inputs   map[string]any
}

func (c *CommandContext) String(name string) string {
	s, _ := c.Inputs[name].(string)
	return s
}

func (c *CommandContext) Number(name string) int {
	n, _ := c.Inputs[name].(int)
	return n
}

func (c *CommandContext) Decimal(name string) float64 {
	f, _ := c.Inputs[name].(float64)
	return f
}

func (c *CommandContext) Skill(name string) skills.Skill {
	s, _ := c.Inputs[name].(skills.Skill)
	return s
}

// Has reports whether an optional input was supplied.
func (c *CommandContext) Has(name string) bool {
	_, ok := c.Inputs[name]
	return ok
}
