package player

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pixil98/go-wilds/internal/session"
)

const maxPasswordTries = 3

type loginFlow struct {
	auth *session.Authenticator
}

// Run asks for a name and either checks the password of an existing account
// or walks the player through creating one.
func (f *loginFlow) Run(t *terminal) (*session.Account, error) {
	if err := t.Print("Welcome to the Wilds!\n"); err != nil {
		return nil, err
	}

	for {
		name, err := t.Prompt("By what name do you wish to be known? ",
			WithValidator(func(str string) (bool, string) {
				if !session.ValidName(str) {
					return false, "Invalid name, please try another.\n"
				}
				return true, ""
			}),
		)
		if err != nil {
			return nil, err
		}

		if f.auth.Exists(name) {
			return f.login(t, name)
		}

		acct, err := f.newAccount(t, name)
		if err != nil {
			return nil, err
		}
		if acct == nil {
			continue
		}
		return acct, nil
	}
}

func (f *loginFlow) login(t *terminal, name string) (*session.Account, error) {
	var acct *session.Account
	var loginErr error

	_, err := t.Prompt("Password: ", WithMaxTries(maxPasswordTries), WithValidator(
		func(str string) (bool, string) {
			a, err := f.auth.Login(name, str)
			switch {
			case errors.Is(err, session.ErrBadPassword):
				return false, "Wrong password.\n"
			case err != nil:
				loginErr = err
			default:
				acct = a
			}
			return true, ""
		},
	))
	if err != nil {
		return nil, err
	}
	if loginErr != nil {
		return nil, fmt.Errorf("logging in %s: %w", name, loginErr)
	}
	return acct, nil
}

// newAccount returns a nil account if the player wants to pick another name.
func (f *loginFlow) newAccount(t *terminal, name string) (*session.Account, error) {
	ok, err := t.PromptYN(fmt.Sprintf("Did I get that right, %s (Y/N)? ", name))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	for {
		passOne, err := t.Prompt(fmt.Sprintf("Give me a password for %s: ", name), WithValidator(
			func(str string) (bool, string) {
				if len(str) < session.MinPasswordLength || strings.EqualFold(str, name) {
					return false, "Illegal password.\n"
				}
				return true, ""
			},
		))
		if err != nil {
			return nil, err
		}

		passTwo, err := t.Prompt("Please retype password: ")
		if err != nil {
			return nil, err
		}

		if passOne != passTwo {
			if err := t.Print("Passwords don't match... start over.\n"); err != nil {
				return nil, err
			}
			continue
		}

		acct, err := f.auth.Register(name, passOne)
		if errors.Is(err, session.ErrAccountExists) {
			// Someone else claimed the name while we were typing.
			if err := t.Print("That name was just taken.\n"); err != nil {
				return nil, err
			}
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("registering %s: %w", name, err)
		}
		return acct, nil
	}
}
