package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// Prompts are variables so tests can answer them.
var (
	promptLine     = runPromptLine
	promptPassword = readPassword
)

// emailValidator applies the same tags as the auth service.
var emailValidator = validator.New()

func validateNotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateEmail(s string) error {
	if err := emailValidator.Var(strings.TrimSpace(s), "required,email"); err != nil {
		return errors.New("not a valid email address")
	}
	return nil
}

func runPromptLine(label string, validate promptui.ValidateFunc) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("%s is required in non-interactive mode", strings.ToLower(label))
	}
	p := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}
	v, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("%s prompt cancelled: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(v), nil
}

func readPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password or SHOPFRONT_PASSWORD)")
	}
	fmt.Print(label + ": ")
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}
