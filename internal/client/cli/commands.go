package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and creates the account. It does
// not log the user in. Server and network failures are printed, only input
// errors are returned.
func (a *App) Register(ctx context.Context) error {
	var req client.RegisterRequest
	var err error

	if req.Username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
		return err
	}
	if req.FirstName, err = getSimpleText(a.reader, "Enter first name", a.out); err != nil {
		return err
	}
	if req.LastName, err = getSimpleText(a.reader, "Enter last name", a.out); err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	if msg := a.mirror.Register(ctx, req); msg != "" {
		fmt.Fprintln(a.out, msg)
	}
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if msg := a.mirror.Login(ctx, userName, string(password)); msg != "" {
		fmt.Fprintln(a.out, msg)
	}
	return nil
}

// Logout forgets the local session. The server is not contacted.
func (a *App) Logout(ctx context.Context) error {
	return a.mirror.Logout(ctx)
}

// WhoAmI prints the profile of the current session.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.mirror.User()
	if u == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	fmt.Fprintf(a.out, "ID:         %s\n", u.ID)
	fmt.Fprintf(a.out, "Username:   %s\n", u.Username)
	fmt.Fprintf(a.out, "First name: %s\n", u.FirstName)
	fmt.Fprintf(a.out, "Last name:  %s\n", u.LastName)
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "Created at: %s\n", u.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
