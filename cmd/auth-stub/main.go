package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aussiebroadwan/openrestauth/internal/stub"
	"github.com/aussiebroadwan/openrestauth/pkg/cryptox"
	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use:   "auth-stub",
		Short: "Serve a local openrest authentication endpoint",
		Long: `Serve a local openrest authentication endpoint backed by a TOML user directory.

Configuration is read from the environment: STUB_PORT, STUB_DIRECTORY_FILE,
STUB_TOKEN_SECRET, STUB_TOKEN_TTL, STUB_ISSUER, STUB_PASSWORD_PEPPER, ENV,
LOG_LEVEL, LOG_FORMAT, SHUTDOWN_GRACE_PERIOD and RATELIMIT_LOGIN_*.`,

		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := stub.New(stub.LoadConfig())
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "hash [password]",
		Short: "Print an Argon2id hash for a directory entry",
		Long: `Print an Argon2id password_hash for the user directory. The password is
read from standard input when not given as an argument. STUB_PASSWORD_PEPPER
must match the value the server runs with.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, args)
			if err != nil {
				return err
			}

			hash, err := cryptox.PasswordHasher{Pepper: os.Getenv("STUB_PASSWORD_PEPPER")}.HashPassword(password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	})

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "auth-stub:", err)
		os.Exit(1)
	}
}

func readPassword(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return password, nil
}
