package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dmitrijs2005/nexusauth/internal/client/client"
	"github.com/dmitrijs2005/nexusauth/internal/client/services"
	"github.com/dmitrijs2005/nexusauth/internal/client/session"
	"github.com/dmitrijs2005/nexusauth/internal/common"
	"github.com/dmitrijs2005/nexusauth/internal/validation"
)

// Input helpers are package variables so tests can script them.
var (
	getSimpleText  = GetSimpleText
	getPassword    = GetPassword
	getChoice      = GetChoice
	getMultiChoice = GetMultiChoice
	getYesNo       = GetYesNo
)

// Register walks through the sign-up form. On success the new account is
// signed in.
func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in; logout first.")
		return nil
	}

	form, err := a.readRegistration()
	if err != nil {
		return err
	}

	user, err := a.authService.Register(ctx, form)
	if err != nil {
		a.reportError("Registration", err)
		return err
	}

	a.user = user
	fmt.Fprintln(a.out, "Registration successful! Please check your email for verification instructions.")
	a.printProfile(user)
	return nil
}

func (a *App) readRegistration() (validation.Registration, error) {
	var form validation.Registration
	var err error

	if form.FullName, err = getSimpleText(a.reader, "Full name", a.out); err != nil {
		return form, err
	}
	if form.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return form, err
	}
	if form.Username, err = getSimpleText(a.reader, "Username (3-20 letters, digits or _)", a.out); err != nil {
		return form, err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return form, err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return form, err
	}
	defer common.WipeByteArray(confirm)
	form.Password, form.ConfirmPassword = string(password), string(confirm)

	if form.Gender, err = getChoice(a.reader, "Gender", validation.Genders, a.out); err != nil {
		return form, err
	}
	if form.Country, err = getChoice(a.reader, "Country", validation.Countries, a.out); err != nil {
		return form, err
	}
	if form.Hobbies, err = getMultiChoice(a.reader, "Areas of interest", validation.Interests, a.out); err != nil {
		return form, err
	}
	if form.TermsAccepted, err = getYesNo(a.reader, "Do you agree to the Terms of Service?", a.out); err != nil {
		return form, err
	}
	return form, nil
}

func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in; logout first.")
		return nil
	}

	name, err := getSimpleText(a.reader, "Username or email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Login(ctx, name, string(password))
	if err != nil {
		a.reportError("Login", err)
		return err
	}

	a.user = user
	fmt.Fprintf(a.out, "Login successful! Welcome, %s.\n", user.FullName)
	a.printProfile(user)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		log.Printf("logout failed: %v", err)
		return err
	}
	a.user = nil
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Profile prints the cached profile without contacting the server.
func (a *App) Profile(ctx context.Context) error {
	user, err := a.authService.CurrentUser(ctx)
	if err != nil {
		a.reportError("Profile", err)
		return err
	}
	a.user = user
	a.printProfile(user)
	return nil
}

// Refresh reloads the profile from the server, e.g. after verification.
func (a *App) Refresh(ctx context.Context) error {
	user, err := a.authService.Refresh(ctx)
	if err != nil {
		if client.IsUserNotFound(err) {
			a.user = nil
		}
		a.reportError("Refresh", err)
		return err
	}
	a.user = user
	a.printProfile(user)
	return nil
}

func (a *App) Verify(ctx context.Context, token string) error {
	if err := a.authService.Verify(ctx, token); err != nil {
		a.reportError("Verification", err)
		return err
	}
	fmt.Fprintln(a.out, "Email verified successfully!")

	if a.isLoggedIn() {
		if user, err := a.authService.Refresh(ctx); err == nil {
			a.user = user
		}
	}
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	msg, err := a.authService.Ping(ctx)
	if err != nil {
		a.reportError("Ping", err)
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// reportError prints err for the user and logs transport details.
func (a *App) reportError(op string, err error) {
	var verr *validation.Error
	var apiErr *client.APIError

	switch {
	case errors.As(err, &verr):
		a.printFieldErrors(verr.Fields)
	case errors.As(err, &apiErr) && len(apiErr.FieldErrors) > 0:
		a.printFieldErrors(apiErr.FieldErrors)
	case errors.As(err, &apiErr):
		fmt.Fprintln(a.out, apiErr.Message)
	case errors.Is(err, client.ErrUnavailable):
		log.Printf("%s: %v", op, err)
		fmt.Fprintln(a.out, client.UnavailableMessage)
	case errors.Is(err, services.ErrNotSignedIn):
		fmt.Fprintln(a.out, "You are not logged in.")
	default:
		log.Printf("%s: %v", op, err)
		fmt.Fprintf(a.out, "%s failed.\n", op)
	}
}

func (a *App) printFieldErrors(fields []validation.FieldError) {
	fmt.Fprintln(a.out, "Please fix the following:")
	for _, fe := range fields {
		fmt.Fprintf(a.out, "  - %s\n", fe.Message)
	}
}

func (a *App) printProfile(p *session.Profile) {
	verified := "no (check your email)"
	if p.IsVerified {
		verified = "yes"
	}

	fmt.Fprintln(a.out, "----------------------------------------")
	fmt.Fprintf(a.out, "Name:          %s\n", p.FullName)
	fmt.Fprintf(a.out, "Username:      %s\n", p.Username)
	fmt.Fprintf(a.out, "Email:         %s\n", p.Email)
	fmt.Fprintf(a.out, "Gender:        %s\n", p.Gender)
	fmt.Fprintf(a.out, "Country:       %s\n", p.Country)
	fmt.Fprintf(a.out, "Interests:     %s\n", strings.Join(p.Hobbies, ", "))
	fmt.Fprintf(a.out, "Member since:  %s\n", p.RegisteredAt.Local().Format(time.DateOnly))
	fmt.Fprintf(a.out, "Verified:      %s\n", verified)
	fmt.Fprintln(a.out, "----------------------------------------")
}
