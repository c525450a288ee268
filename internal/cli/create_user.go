package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/annotator/internal/auth"
	"github.com/mrlokans/annotator/internal/config"
	"github.com/mrlokans/annotator/internal/database/users"
)

// CreateUserCommand creates a user and prints their API token once.
type CreateUserCommand struct {
	Username     string
	DatabasePath string

	Out io.Writer
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username, 3-64 letters, digits, '-' or '_' (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user and print an API token for AUTH_MODE=token.\n")
		fmt.Fprintf(os.Stderr, "The token is shown only once.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		return fmt.Errorf("required flag -username not provided")
	}
	return nil
}

func (cmd *CreateUserCommand) Run() error {
	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB))
	user, token, err := service.CreateUser(context.Background(), cmd.Username)
	if err != nil {
		return err
	}

	out := output(cmd.Out)
	fmt.Fprintf(out, "Created user %q (id %d)\n", user.Username, user.ID)
	fmt.Fprintf(out, "API token: %s\n", token)
	fmt.Fprintln(out, "Send it as 'Authorization: Bearer <token>'. It cannot be shown again.")
	return nil
}
