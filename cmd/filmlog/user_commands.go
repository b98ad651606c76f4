package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"filmlog/internal/auth"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage local accounts",
	}
	cmd.AddCommand(newUserListCommand(ctx))
	cmd.AddCommand(newUserAddCommand(ctx))
	cmd.AddCommand(newUserPasswdCommand(ctx))
	cmd.AddCommand(newUserRemoveCommand(ctx))
	return cmd
}

// promptPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read when piped.
func promptPassword(cmd *cobra.Command, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		cmd.Printf("%s: ", label)
		raw, err := term.ReadPassword(fd)
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	var line string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &line); err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return line, nil
}

func newUserListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			users, err := st.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				type entry struct {
					ID       int64  `json:"id"`
					Username string `json:"username"`
				}
				entries := make([]entry, 0, len(users))
				for _, user := range users {
					entries = append(entries, entry{ID: user.ID, Username: user.Username})
				}
				return writeJSON(cmd, entries)
			}
			rows := make([][]string, 0, len(users))
			for _, user := range users {
				rows = append(rows, []string{
					strconv.FormatInt(user.ID, 10),
					user.Username,
					user.CreatedAt.Format("2006-01-02"),
				})
			}
			cmd.Println(renderTable(
				[]string{"ID", "Username", "Created"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
}

func newUserAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			password, err := promptPassword(cmd, "Password")
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			user, err := st.CreateUser(cmd.Context(), args[0], hash)
			if err != nil {
				return err
			}
			cmd.Printf("Created user %d: %s\n", user.ID, user.Username)
			return nil
		},
	}
}

func newUserPasswdCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd <username>",
		Short: "Change an account's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			user, err := st.GetUserByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			current, err := promptPassword(cmd, "Current password")
			if err != nil {
				return err
			}
			ok, err := auth.VerifyPassword(current, user.PasswordHash)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("current password does not match")
			}

			next, err := promptPassword(cmd, "New password")
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(next)
			if err != nil {
				return err
			}
			if err := st.UpdatePasswordHash(cmd.Context(), user.ID, hash); err != nil {
				return err
			}
			cmd.Printf("Updated password for %s\n", user.Username)
			return nil
		},
	}
}

func newUserRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <username>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			user, err := st.GetUserByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := st.DeleteUser(cmd.Context(), user.ID); err != nil {
				return err
			}
			cmd.Printf("Removed user %s\n", user.Username)
			return nil
		},
	}
}
