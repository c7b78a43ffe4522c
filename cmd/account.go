package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	accountsrender "github.com/bnema/garm/internal/adapters/render/accounts"
	"github.com/bnema/garm/internal/application"
	"github.com/bnema/garm/internal/domain"
	"github.com/spf13/cobra"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(app),
		newAccountAddCmd(app),
	)

	return cmd
}

type accountOutput struct {
	ID              domain.AccountID `json:"id"`
	Handle          string           `json:"handle"`
	ProfileURL      string           `json:"profile_url,omitempty"`
	ProfileImageURL string           `json:"profile_image,omitempty"`
	CreatedAt       string           `json:"created_at,omitempty"`
	KeyValid        bool             `json:"key_valid"`
}

func newAccountListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := app.service.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeAccountsJSON(cmd, accounts)
			}

			rendered, err := app.accountsRenderer(accounts, accountsrender.RenderOptions{
				Origin: app.config.Server.PublicURL,
			})
			if err != nil {
				return fmt.Errorf("render accounts: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print accounts as JSON")

	return cmd
}

func writeAccountsJSON(cmd *cobra.Command, accounts []domain.Account) error {
	out := make([]accountOutput, 0, len(accounts))
	for _, account := range accounts {
		_, keyErr := domain.ValidatePublicKeyPEM(account.PublicKey)
		entry := accountOutput{
			ID:              account.ID,
			Handle:          account.Handle,
			ProfileURL:      account.ProfileURL,
			ProfileImageURL: account.ProfileImageURL,
			KeyValid:        keyErr == nil,
		}
		if !account.CreatedAt.IsZero() {
			entry.CreatedAt = account.CreatedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, entry)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func newAccountAddCmd(app *app) *cobra.Command {
	var (
		id            string
		handle        string
		publicKeyFile string
		profileURL    string
		profileImage  string
		createdAt     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			material, err := app.readFile(publicKeyFile)
			if err != nil {
				return fmt.Errorf("read public key file: %w", err)
			}

			command := application.AddAccountCommand{
				ID:              domain.AccountID(id),
				Handle:          handle,
				PublicKeyPEM:    material,
				ProfileImageURL: profileImage,
				ProfileURL:      profileURL,
			}
			if createdAt != "" {
				parsed, err := time.Parse(time.RFC3339, createdAt)
				if err != nil {
					return fmt.Errorf("--created-at must be RFC3339: %w", err)
				}
				command.CreatedAt = parsed
			}

			account, err := app.service.AddAccount(cmd.Context(), command)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved account %s (%s)\n", account.Handle, account.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Internal account id (e.g. the platform's numeric id)")
	cmd.Flags().StringVar(&handle, "handle", "", "Public handle used in actor URLs")
	cmd.Flags().StringVar(&publicKeyFile, "public-key-file", "", "Path to the account's PEM public key")
	cmd.Flags().StringVar(&profileURL, "profile-url", "", "External profile page")
	cmd.Flags().StringVar(&profileImage, "profile-image", "", "Avatar image URL")
	cmd.Flags().StringVar(&createdAt, "created-at", "", "Account creation time (RFC3339, defaults to now)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("handle")
	_ = cmd.MarkFlagRequired("public-key-file")
	_ = cmd.MarkFlagRequired("profile-url")

	return cmd
}
