package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakhura/loginapp/pkg/authentication"
	"github.com/sakhura/loginapp/pkg/logging"
	"github.com/sakhura/loginapp/pkg/login"
)

// Caller-facing messages
const (
	msgLoginSuccess     = "¡Login exitoso!"
	msgAttemptsLeft     = "%s (%d intentos restantes)"
	msgMaxAttempts      = "Máximo de intentos alcanzado. Intenta más tarde."
	promptUsername      = "Usuario: "
	promptPassword      = "Contraseña: "
	msgWelcome          = "Bienvenido, %s (%s)"
	msgLoginPromptTitle = "=== Iniciar sesión ==="
)

var (
	errMaxAttempts = errors.New("maximum login attempts reached")
	errLoginFailed = errors.New("login failed")
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Iniciar sesión",
		Long: `Prompts for a username and password until the login succeeds or the
configured number of attempts (max_attempts) is used up.

With --username and --password a single attempt is made without prompting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromFlags()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("username") || cmd.Flags().Changed("password") {
				return loginOnce(cmdContext(cmd), a.policy, cmd.OutOrStdout(), username, password)
			}
			return loginInteractive(cmdContext(cmd), a.policy, cmd.InOrStdin(), cmd.OutOrStdout(), a.config.MaxAttempts)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username for a single non-interactive attempt")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for a single non-interactive attempt")

	return cmd
}

// attempt runs one login and reports the outcome on out
func attempt(ctx context.Context, policy *login.Policy, out io.Writer, username, password string) (authentication.Outcome, error) {
	outcome := policy.Execute(ctx, username, password)
	switch o := outcome.(type) {
	case authentication.Success:
		logging.Access.LogAuth("LOGIN", username, "success", "id", o.User.ID)
		fmt.Fprintln(out, msgLoginSuccess)
		fmt.Fprintf(out, msgWelcome+"\n", o.User.Username, o.User.Email)
	case authentication.Failure:
		logging.Access.LogAuth("LOGIN", username, "failure", "reason", o.Message)
	default:
		return nil, fmt.Errorf("unexpected login outcome %T", outcome)
	}
	return outcome, nil
}

func loginOnce(ctx context.Context, policy *login.Policy, out io.Writer, username, password string) error {
	outcome, err := attempt(ctx, policy, out, strings.TrimSpace(username), strings.TrimSpace(password))
	if err != nil {
		return err
	}
	if f, ok := outcome.(authentication.Failure); ok {
		fmt.Fprintln(out, f.Message)
		return fmt.Errorf("%w: %w", errLoginFailed, f)
	}
	return nil
}

// loginInteractive prompts on in until a login succeeds, the input ends, or
// maxAttempts failures have been recorded.
func loginInteractive(ctx context.Context, policy *login.Policy, in io.Reader, out io.Writer, maxAttempts int) error {
	counter := newAttemptCounter(maxAttempts)
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, msgLoginPromptTitle)
	for {
		if counter.Exhausted() {
			fmt.Fprintln(out, msgMaxAttempts)
			logging.App.Warn("Login attempts exhausted", "max_attempts", maxAttempts)
			return errMaxAttempts
		}

		username, ok := readLine(scanner, out, promptUsername)
		if !ok {
			return scanner.Err()
		}
		password, ok := readLine(scanner, out, promptPassword)
		if !ok {
			return scanner.Err()
		}

		outcome, err := attempt(ctx, policy, out, username, password)
		if err != nil {
			return err
		}
		if f, ok := outcome.(authentication.Failure); ok {
			fmt.Fprintf(out, msgAttemptsLeft+"\n", f.Message, counter.Fail())
			continue
		}

		counter.Reset()
		return nil
	}
}

func readLine(scanner *bufio.Scanner, out io.Writer, prompt string) (string, bool) {
	fmt.Fprint(out, prompt)
	if !scanner.Scan() {
		fmt.Fprintln(out)
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}
