package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var registerCmd = &cobra.Command{
	Use:   "register <name> <email>",
	Short: "Create a new user account",
	Long: `Create a new user account. The password is prompted for twice on
the terminal and never appears in the process arguments.`,
	Args: cobra.ExactArgs(2),
	RunE: runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Verify credentials and print an access token",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var promoteCmd = &cobra.Command{
	Use:   "promote <user-id>",
	Short: "Grant administrator rights to a user",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runSetAdmin(cmd, args, true) },
}

var demoteCmd = &cobra.Command{
	Use:   "demote <user-id>",
	Short: "Revoke administrator rights from a user",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runSetAdmin(cmd, args, false) },
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete-user <user-id>",
	Short: "Destroy an account, its posts, and its follow edges",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteUser,
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}

func parseUserID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q", arg)
	}
	return id, nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	name, email := args[0], args[1]

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirmation, err := promptPassword("Confirmation: ")
	if err != nil {
		return err
	}

	user, err := users.Create(cmd.Context(), name, email, password, confirmation)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %d (%s <%s>)\n", user.ID, user.Name, user.Email)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	if tokens == nil {
		user, err := authService.Authenticate(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("Authenticated as user %d (%s)\n", user.ID, user.Name)
		fmt.Println("No token issued: JWT_SECRET is not set")
		return nil
	}

	result, err := authService.Login(cmd.Context(), args[0], password)
	if err != nil {
		return err
	}

	fmt.Printf("Authenticated as user %d (%s)\n", result.User.ID, result.User.Name)
	fmt.Println(result.Token)
	return nil
}

func runSetAdmin(cmd *cobra.Command, args []string, admin bool) error {
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}
	if err := users.SetAdmin(cmd.Context(), id, admin); err != nil {
		return err
	}

	if admin {
		fmt.Printf("User %d is now an administrator\n", id)
	} else {
		fmt.Printf("User %d is no longer an administrator\n", id)
	}
	return nil
}

func runDeleteUser(cmd *cobra.Command, args []string) error {
	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}
	if err := users.Destroy(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Printf("Deleted user %d\n", id)
	return nil
}
