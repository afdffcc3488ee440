package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

var (
	userName  string
	userEmail string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage document owners",
	Long:  `Register users and inspect their document counters.`,
}

var userAddCmd = &cobra.Command{
	Use:         "add",
	Short:       "Register a user",
	Args:        cobra.NoArgs,
	Annotations: engineAnnotation,
	RunE:        runUserAdd,
}

var userShowCmd = &cobra.Command{
	Use:         "show [id-or-email]",
	Short:       "Show a user",
	Long:        `Show a user's profile. Defaults to the user selected with --user.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: engineAnnotation,
	RunE:        runUserShow,
}

var userLoginCmd = &cobra.Command{
	Use:         "login [id-or-email]",
	Short:       "Record a login for a user",
	Args:        cobra.MaximumNArgs(1),
	Annotations: engineAnnotation,
	RunE:        runUserLogin,
}

func init() {
	userAddCmd.Flags().StringVar(&userName, "name", "", "display name")
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "email address (unique)")
	_ = userAddCmd.MarkFlagRequired("name")
	_ = userAddCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userLoginCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, _ []string) error {
	if userService == nil {
		return errors.New("user service not configured")
	}

	user, err := userService.Register(cmd.Context(), userName, userEmail)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return fmt.Errorf("a user with email %s already exists", userEmail)
		}
		return fmt.Errorf("failed to register user: %w", err)
	}

	cmd.Println(successStyle.Render("Registered user " + user.ID))
	printUser(cmd, user)
	return nil
}

func runUserShow(cmd *cobra.Command, args []string) error {
	user, err := lookupUser(cmd, args)
	if err != nil {
		return err
	}
	printUser(cmd, user)
	return nil
}

func runUserLogin(cmd *cobra.Command, args []string) error {
	user, err := lookupUser(cmd, args)
	if err != nil {
		return err
	}
	user, err = userService.RecordLogin(cmd.Context(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	cmd.Printf("Login recorded for %s\n", user.Email)
	return nil
}

func lookupUser(cmd *cobra.Command, args []string) (*domain.User, error) {
	if userService == nil {
		return nil, errors.New("user service not configured")
	}
	ref := ""
	if len(args) == 1 {
		ref = args[0]
	} else {
		id, err := resolveOwner(cmd.Context())
		if err != nil {
			return nil, err
		}
		ref = id
	}
	user, err := userService.Get(cmd.Context(), ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func printUser(cmd *cobra.Command, user *domain.User) {
	cmd.Printf("  %s %s\n", labelStyle.Render("ID:        "), user.ID)
	cmd.Printf("  %s %s\n", labelStyle.Render("Name:      "), user.Name)
	cmd.Printf("  %s %s\n", labelStyle.Render("Email:     "), user.Email)
	cmd.Printf("  %s %s\n", labelStyle.Render("Created:   "), user.CreatedAt.Format(time.DateTime))
	lastLogin := "never"
	if user.LastLogin != nil {
		lastLogin = user.LastLogin.Format(time.DateTime)
	}
	cmd.Printf("  %s %s\n", labelStyle.Render("Last login:"), lastLogin)
	cmd.Printf("  %s %d\n", labelStyle.Render("Chunks:    "), user.DocumentCount)
	cmd.Printf("  %s %d\n", labelStyle.Render("Characters:"), user.TotalCharacters)
}
