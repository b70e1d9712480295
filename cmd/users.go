package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ponyseeo/internal/formatter"
	"github.com/desertthunder/ponyseeo/internal/models"
	"github.com/desertthunder/ponyseeo/internal/repositories"
	"github.com/urfave/cli/v3"
)

// Users prints the sign-in ledger.
func (r *Runner) Users(ctx context.Context, cmd *cli.Command) error {
	db, _, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := repositories.NewUserRepository(db).List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if cmd.Bool("json") {
		if users == nil {
			users = []*models.User{}
		}
		return r.writeJSON(users, true)
	}

	return r.writeBytes(formatter.UsersToText(users))
}
