package cli

import (
	"context"
	"fmt"
)

// Register creates an account from interactive input.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	if _, err := a.api.Signup(ctx, email, name, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "User created! You can log in now.")
	return nil
}

// Login authenticates and keeps the session token for later commands.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	if _, err := a.api.Login(ctx, email, password); err != nil {
		return err
	}
	a.email = email
	fmt.Fprintln(a.out, "Logged in.")
	return nil
}

// Logout forgets the session token. Tokens stay valid on the server until
// they expire.
func (a *App) Logout(ctx context.Context) error {
	a.api.SetToken("")
	a.email = ""
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
