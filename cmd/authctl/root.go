package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aussiebroadwan/openrestauth/pkg/authsdk"
	"github.com/aussiebroadwan/openrestauth/pkg/slogx"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "v0.1.0"

const defaultTimeout = 30 * time.Second

type options struct {
	Endpoint  string
	Timeout   time.Duration
	LogLevel  string
	LogFormat string
}

// loginFunc performs one facade call.
type loginFunc func(ctx context.Context, auth *authsdk.Authentication) (json.RawMessage, error)

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opt := options{
		Endpoint:  getEnvOrDefault("AUTH_ENDPOINT_URL", authsdk.DefaultEndpointURL),
		Timeout:   getEnvDurationOrDefault("AUTH_TIMEOUT", defaultTimeout),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}

	root := &cobra.Command{
		Use:     "authctl",
		Short:   "Log in against an openrest authentication endpoint",
		Version: Version,

		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opt.Endpoint, "endpoint", opt.Endpoint, "Authentication endpoint URL. Env: AUTH_ENDPOINT_URL")
	flags.DurationVar(&opt.Timeout, "timeout", opt.Timeout, "Per-request timeout, 0 waits forever. Env: AUTH_TIMEOUT")
	flags.StringVar(&opt.LogLevel, "log-level", opt.LogLevel, "Log filtering level. e.g info, debug, warn, error")
	flags.StringVar(&opt.LogFormat, "log-format", opt.LogFormat, "Log format, text or json")

	// run wires the logger and client, then prints the call's value.
	run := func(cmd *cobra.Command, call loginFunc) error {
		logger := slogx.New(slogx.Config{
			Service: "authctl",
			Version: Version,
			Env:     "cli",
			Level:   opt.LogLevel,
			Format:  opt.LogFormat,
			Output:  stderr,
		})

		auth, err := authsdk.NewAuthentication(authsdk.Config{
			Transport:   &http.Client{},
			EndpointURL: opt.Endpoint,
			Timeout:     opt.Timeout,
		})
		if err != nil {
			return err
		}

		ctx := slogx.WithContext(cmd.Context(), logger)
		value, err := call(ctx, auth)
		if err != nil {
			return err
		}
		return printValue(stdout, value)
	}

	root.AddCommand(
		newWixCmd(run),
		newOpenrestCmd(run),
		newGoogleCmd(run),
		newFacebookCmd(run),
		newAuthenticateCmd(run),
	)
	return root
}

type runFunc func(cmd *cobra.Command, call loginFunc) error

func newWixCmd(run runFunc) *cobra.Command {
	var instance, appKey string

	cmd := &cobra.Command{
		Use:   "wix",
		Short: "Log in with a signed Wix app instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, auth *authsdk.Authentication) (json.RawMessage, error) {
				return auth.Wix(ctx, instance, appKey)
			})
		},
	}
	cmd.Flags().StringVar(&instance, "instance", "", "Signed Wix instance")
	cmd.Flags().StringVar(&appKey, "app-key", "", "Wix app key, omitted from the request when empty")
	_ = cmd.MarkFlagRequired("instance")
	return cmd
}

func newOpenrestCmd(run runFunc) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "openrest",
		Short: "Log in with an openrest username and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("AUTH_PASSWORD")
			}
			return run(cmd, func(ctx context.Context, auth *authsdk.Authentication) (json.RawMessage, error) {
				return auth.Openrest(ctx, username, password)
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Openrest username")
	cmd.Flags().StringVar(&password, "password", "", "Openrest password. Env: AUTH_PASSWORD")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newGoogleCmd(run runFunc) *cobra.Command {
	var idToken, clientID string

	cmd := &cobra.Command{
		Use:   "google",
		Short: "Log in with a Google ID token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, auth *authsdk.Authentication) (json.RawMessage, error) {
				return auth.Google(ctx, idToken, clientID)
			})
		},
	}
	cmd.Flags().StringVar(&idToken, "id-token", "", "Google ID token")
	cmd.Flags().StringVar(&clientID, "client-id", "", "Google OAuth client id the token was issued for")
	_ = cmd.MarkFlagRequired("id-token")
	_ = cmd.MarkFlagRequired("client-id")
	return cmd
}

func newFacebookCmd(run runFunc) *cobra.Command {
	var accessToken string

	cmd := &cobra.Command{
		Use:   "facebook",
		Short: "Log in with a Facebook access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, auth *authsdk.Authentication) (json.RawMessage, error) {
				return auth.Facebook(ctx, accessToken)
			})
		},
	}
	cmd.Flags().StringVar(&accessToken, "access-token", "", "Facebook access token")
	_ = cmd.MarkFlagRequired("access-token")
	return cmd
}

func newAuthenticateCmd(run runFunc) *cobra.Command {
	var accessToken string

	cmd := &cobra.Command{
		Use:   "authenticate",
		Short: "Validate an access token issued by a previous login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, auth *authsdk.Authentication) (json.RawMessage, error) {
				return auth.Authenticate(ctx, accessToken)
			})
		},
	}
	cmd.Flags().StringVar(&accessToken, "access-token", "", "Access token to validate")
	_ = cmd.MarkFlagRequired("access-token")
	return cmd
}

func printValue(w io.Writer, value json.RawMessage) error {
	var out bytes.Buffer
	if err := json.Indent(&out, value, "", "  "); err != nil {
		return fmt.Errorf("failed to format value: %w", err)
	}
	out.WriteByte('\n')

	_, err := out.WriteTo(w)
	return err
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
