// Package admin implements the operator command line: the only way to give
// an account the admin role.
package admin

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/dmitrijs2005/supportdesk/internal/logging"
	"github.com/dmitrijs2005/supportdesk/internal/server/config"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
	"github.com/spf13/cobra"
)

// Accounts is the slice of the account service the CLI needs.
type Accounts interface {
	SetRole(ctx context.Context, email string, role models.Role) (bool, error)
	CreateAdmin(ctx context.Context, email, password string) (*models.Account, error)
}

// Opener builds Accounts from cfg. The returned func releases whatever
// Opener acquired.
type Opener func(ctx context.Context, cfg *config.Config, logger logging.Logger) (Accounts, func(), error)

type cli struct {
	open       Opener
	logger     logging.Logger
	configPath string
	stdin      io.Reader
}

// NewRootCommand returns the supportdesk-admin command tree.
func NewRootCommand(open Opener, logger logging.Logger, stdin io.Reader) *cobra.Command {
	c := &cli{open: open, logger: logger, stdin: stdin}

	root := &cobra.Command{
		Use:           "supportdesk-admin",
		Short:         "Operator tools for supportdesk accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a YAML or JSON config file")

	root.AddCommand(
		c.roleCommand("promote", "Grant the admin role to an existing account", models.RoleAdmin),
		c.roleCommand("demote", "Revoke the admin role from an account", models.RoleUser),
		c.createAdminCommand(),
	)
	return root
}

func (c *cli) loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	var err error
	if c.configPath != "" {
		err = config.ReadFile(c.configPath, cfg)
	} else {
		err = config.ReadEnv(cfg)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *cli) withAccounts(cmd *cobra.Command, fn func(ctx context.Context, accounts Accounts) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	accounts, closeFn, err := c.open(ctx, cfg, c.logger)
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(ctx, accounts)
}

func (c *cli) roleCommand(use, short string, role models.Role) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]
			return c.withAccounts(cmd, func(ctx context.Context, accounts Accounts) error {
				changed, err := accounts.SetRole(ctx, email, role)
				if err != nil {
					return err
				}
				if !changed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already has role %s\n", email, role)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s now has role %s\n", email, role)
				fmt.Fprintln(cmd.OutOrStdout(), "Tokens issued earlier keep their old role until they expire.")
				return nil
			})
		},
	}
}

func (c *cli) createAdminCommand() *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "create-admin <email>",
		Short: "Create a new account with the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				pw  []byte
				err error
			)
			if fromStdin {
				pw, err = readLine(c.stdin)
			} else {
				pw, err = getNewPassword(cmd.ErrOrStderr())
			}
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			return c.withAccounts(cmd, func(ctx context.Context, accounts Accounts) error {
				a, err := accounts.CreateAdmin(ctx, args[0], string(pw))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", a.Email, a.ID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read the password from standard input")
	return cmd
}
