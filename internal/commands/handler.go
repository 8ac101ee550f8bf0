package commands

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pixil98/go-wilds/internal/game"
	"github.com/pixil98/go-wilds/internal/skills"
)

type Handler struct {
	commands map[string]*Command
	aliases  map[string]string
}

func NewHandler() *Handler {
	return &Handler{
		commands: make(map[string]*Command),
		aliases:  make(map[string]string),
	}
}

// Register adds cmd under its name and aliases.
func (h *Handler) Register(cmd *Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	names := append([]string{cmd.Name}, cmd.Aliases...)
	for _, n := range names {
		n = strings.ToLower(n)
		if _, exists := h.aliases[n]; exists {
			return fmt.Errorf("command %q already registered", n)
		}
	}
	for _, n := range names {
		h.aliases[strings.ToLower(n)] = cmd.Name
	}
	h.commands[cmd.Name] = cmd
	return nil
}

// Commands returns every registered command sorted by name.
func (h *Handler) Commands() []*Command {
	out := make([]*Command, 0, len(h.commands))
	for _, c := range h.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a command by name or alias.
func (h *Handler) Lookup(name string) (*Command, bool) {
	canonical, ok := h.aliases[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return h.commands[canonical], true
}

// Exec parses line and runs the command it names.
func (h *Handler) Exec(ctx context.Context, ps *game.PlayerState, line string) (string, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil
	}

	cmd, ok := h.Lookup(parts[0])
	if !ok {
		return "", UserErrorf("Unknown command: %s", parts[0])
	}

	inputs, err := h.parseArgs(cmd.Inputs, parts[1:])
	if err != nil {
		return "", err
	}

	return cmd.Run(ctx, &CommandContext{
		PlayerID: ps.ID(),
		Player:   ps,
		Inputs:   inputs,
	})
}

// parseArgs validates raw string arguments against input specs.
func (h *Handler) parseArgs(specs []InputSpec, rawArgs []string) (map[string]any, error) {
	requiredCount := 0
	for _, spec := range specs {
		if spec.Required {
			requiredCount++
		}
	}

	if len(rawArgs) < requiredCount {
		return nil, UserErrorf("Expected at least %d argument(s), got %d.", requiredCount, len(rawArgs))
	}

	hasRest := len(specs) > 0 && specs[len(specs)-1].Rest
	if !hasRest && len(rawArgs) > len(specs) {
		return nil, UserErrorf("Expected at most %d argument(s), got %d.", len(specs), len(rawArgs))
	}

	inputs := make(map[string]any, len(specs))
	argIndex := 0
	for _, spec := range specs {
		if argIndex >= len(rawArgs) {
			break
		}

		var raw string
		if spec.Rest {
			raw = strings.Join(rawArgs[argIndex:], " ")
			argIndex = len(rawArgs)
		} else {
			raw = rawArgs[argIndex]
			argIndex++
		}

		value, err := h.parseValue(spec.Type, raw)
		if err != nil {
			return nil, err
		}
		inputs[spec.Name] = value
	}

	return inputs, nil
}

// parseValue parses a raw string into the appropriate type.
func (h *Handler) parseValue(inputType InputType, raw string) (any, error) {
	switch inputType {
	case InputTypeString:
		return raw, nil

	case InputTypeNumber:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, UserErrorf("%q is not a valid number.", raw)
		}
		return n, nil

	case InputTypeDecimal:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, UserErrorf("%q is not a valid number.", raw)
		}
		return f, nil

	case InputTypeSkill:
		sk, err := skills.ParseSkill(raw)
		if err != nil {
			return nil, UserErrorf("%q is not a skill.", raw)
		}
		return sk, nil

	default:
		return nil, fmt.Errorf("unknown parameter type %q", inputType)
	}
}
