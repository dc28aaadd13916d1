package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"supplychain-wallet-gateway/internal/core/domain"
	"supplychain-wallet-gateway/internal/core/ports"
)

// StaticSelector always answers with the same choice.
type StaticSelector struct {
	Choice string
}

func (s StaticSelector) SelectAccount(_ context.Context, _ []domain.CannedAccount) (string, error) {
	return s.Choice, nil
}

type accountChoiceKey struct{}

// WithAccountChoice attaches a per-request account choice to ctx.
func WithAccountChoice(ctx context.Context, choice string) context.Context {
	return context.WithValue(ctx, accountChoiceKey{}, choice)
}

// AccountChoiceFromContext returns the choice set by WithAccountChoice.
func AccountChoiceFromContext(ctx context.Context) (string, bool) {
	choice, ok := ctx.Value(accountChoiceKey{}).(string)
	return choice, ok
}

// ContextSelector answers with the choice carried by the request context and
// defers to Fallback when there is none.
type ContextSelector struct {
	Fallback ports.AccountSelector
}

func (s ContextSelector) SelectAccount(ctx context.Context, accounts []domain.CannedAccount) (string, error) {
	if choice, ok := AccountChoiceFromContext(ctx); ok {
		return choice, nil
	}
	if s.Fallback == nil {
		return "", nil
	}
	return s.Fallback.SelectAccount(ctx, accounts)
}

// PromptSelector asks an operator on a terminal.
type PromptSelector struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptSelector creates a selector reading answers from in and writing
// the menu to out.
func NewPromptSelector(in io.Reader, out io.Writer) *PromptSelector {
	return &PromptSelector{in: bufio.NewReader(in), out: out}
}

func (s *PromptSelector) SelectAccount(ctx context.Context, accounts []domain.CannedAccount) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Select a simulated account:\n")
	for i, a := range accounts {
		fmt.Fprintf(&b, "%d: %s (%s)\n", i+1, a.Label, a.ID)
	}
	b.WriteString("Choice [1]: ")
	if _, err := io.WriteString(s.out, b.String()); err != nil {
		return "", fmt.Errorf("writing prompt: %w", err)
	}

	line, err := s.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading choice: %w", err)
	}
	return strings.TrimSpace(line), nil
}
