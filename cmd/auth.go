package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vrcfetch/api"
	"vrcfetch/internal"
	"vrcfetch/model"
	"vrcfetch/query"
)

var (
	loginUsername string
	loginPassword string
	secondFactor  string
	loginKind     string
	verifyKind    string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print the session as JSON",
	Long: `Log in with a username and password and print the resulting session.

The session JSON can be passed back with --auth-file. When the account
requires a second factor and --code is given, the code is verified in the
same run; otherwise verify it later with 'vrcfetch verify'.

The password is read from VRCFETCH_PASSWORD unless --password is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := loginCredentials()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		client := api.NewUnauthenticatedClient(config.UserAgent, creds, clientOptions()...)
		internal.LogInfo("Logging in as %s", creds.Username)

		result, token, err := client.Login(ctx)
		if err != nil {
			return err
		}
		authed := client.Upgrade(query.Authentication{Token: token})

		if result.IsLogin() {
			challenge, _ := result.Login()
			if secondFactor == "" {
				internal.LogWarn("Second factor required (%s); run 'vrcfetch verify --code <code>' with the printed session",
					factorNames(challenge))
				return emitSession(authed.Auth(), nil)
			}

			kind, err := challengeKind(challenge)
			if err != nil {
				return err
			}
			authed, err = verifySecondFactor(ctx, authed, kind)
			if err != nil {
				return err
			}
			account, err := authed.Me(ctx)
			if err != nil {
				return err
			}
			return emitSession(authed.Auth(), &account)
		}

		account, _ := result.Account()
		return emitSession(authed.Auth(), &account)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a second-factor code for the session and print the updated session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if secondFactor == "" {
			return internal.NewValidationError("code", "second factor code is required").
				WithSuggestion("Pass --code with the code from your authenticator app or email")
		}

		kind, err := query.ParseSecondFactorKind(verifyKind)
		if err != nil {
			return err
		}

		client, err := authenticatedClient()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		verified, err := verifySecondFactor(ctx, client, kind)
		if err != nil {
			return err
		}
		return emitSession(verified.Auth(), nil)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account the session belongs to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := authenticatedClient()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		account, err := client.Me(ctx)
		if err != nil {
			return err
		}
		return emit(account, func(s styles) string { return accountCard(s, account) })
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the session token is still valid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := authenticatedClient()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		status, err := api.Query(ctx, client, query.VerifyAuth{})
		if err != nil {
			return err
		}
		if !status.OK {
			internal.LogWarn("Session token is no longer valid")
		}
		return emit(struct {
			OK bool `json:"ok"`
		}{status.OK}, func(s styles) string {
			return s.card("Session", []field{{"valid", yesNo(status.OK)}})
		})
	},
}

// loginCredentials reads the username and password from flags or the environment
func loginCredentials() (query.Authenticating, error) {
	username := loginUsername
	if username == "" {
		username = os.Getenv("VRCFETCH_USERNAME")
	}
	password := loginPassword
	if password == "" {
		password = os.Getenv("VRCFETCH_PASSWORD")
	}

	if strings.TrimSpace(username) == "" {
		return query.Authenticating{}, internal.NewValidationError("username", "username is required").
			WithSuggestion("Pass --username or set VRCFETCH_USERNAME")
	}
	if password == "" {
		return query.Authenticating{}, internal.NewValidationError("password", "password is required").
			WithSuggestion("Set VRCFETCH_PASSWORD")
	}
	return query.Authenticating{Username: username, Password: password}, nil
}

// challengeKind picks the verification endpoint for a login challenge.
// An explicit --kind wins; otherwise email codes are used when offered.
func challengeKind(challenge model.LoginResponse) (query.SecondFactorKind, error) {
	if loginKind != "" {
		return query.ParseSecondFactorKind(loginKind)
	}
	if challenge.Requires(model.FactorEmailOTP) {
		return query.SecondFactorEmail, nil
	}
	return query.SecondFactorCode, nil
}

func verifySecondFactor(ctx context.Context, client *api.AuthenticatedClient, kind query.SecondFactorKind) (*api.AuthenticatedClient, error) {
	status, token, err := client.VerifySecondFactor(ctx, query.VerifySecondFactor{Kind: kind, Code: secondFactor})
	if err != nil {
		return nil, err
	}
	if !status.Verified {
		return nil, fmt.Errorf("second factor code was not accepted")
	}
	internal.LogInfo("Second factor verified (%s)", kind)
	return client.ChangeSecondFactor(&token), nil
}

func factorNames(challenge model.LoginResponse) string {
	names := make([]string, len(challenge.RequiresAdditionalAuth))
	for i, factor := range challenge.RequiresAdditionalAuth {
		names[i] = string(factor)
	}
	return strings.Join(names, ", ")
}

// emitSession prints the session in the layout --auth-file reads
func emitSession(auth query.Authentication, account *model.CurrentAccount) error {
	if account != nil {
		internal.LogInfo("Logged in as %s (%s)", account.DisplayName, account.ID)
	}
	session := internal.SessionFile{Token: auth.Token, SecondFactorToken: auth.SecondFactorToken}
	return emit(session, func(s styles) string {
		second := "none"
		if auth.SecondFactorToken != nil {
			second = *auth.SecondFactorToken
		}
		return s.card("Session", []field{
			{"token", auth.Token},
			{"second factor", second},
		})
	})
}

func accountCard(s styles, account model.CurrentAccount) string {
	return s.card(account.DisplayName, []field{
		{"id", account.ID.String()},
		{"username", account.Username},
		{"status", string(account.Status)},
		{"state", string(account.State)},
		{"status text", account.StatusDescription},
		{"email verified", yesNo(account.EmailVerified)},
		{"2fa enabled", yesNo(account.TwoFactorAuthEnabled)},
		{"friends", fmt.Sprint(len(account.Friends))},
		{"home", account.HomeLocation},
		{"last login", account.LastLogin.String()},
		{"last activity", account.LastActivity.String()},
	})
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "VRChat username or email (env: VRCFETCH_USERNAME)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "VRChat password (env: VRCFETCH_PASSWORD)")
	loginCmd.Flags().StringVar(&secondFactor, "code", "", "Second factor code to verify right away")
	loginCmd.Flags().StringVar(&loginKind, "kind", "", "Second factor kind: totp, otp (recovery) or emailotp (default from the login challenge)")

	verifyCmd.Flags().StringVar(&secondFactor, "code", "", "Second factor code")
	verifyCmd.Flags().StringVar(&verifyKind, "kind", "totp", "Second factor kind: totp, otp (recovery) or emailotp")

	rootCmd.AddCommand(loginCmd, verifyCmd, whoamiCmd, checkCmd)
}
