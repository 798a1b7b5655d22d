package cli

import (
	"context"
	"errors"
	"log"

	"sollog/internal/common"
)

func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", outWriter)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	password, err := GetPassword(outWriter)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Register(ctx, email, password); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			log.Println("An account with this email already exists")
		} else {
			log.Printf("Registration unsuccessful: %s", err.Error())
		}
		return err
	}

	a.userEmail = email
	log.Println("Registration successful")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", outWriter)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	password, err := GetPassword(outWriter)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Login(ctx, email, password); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	a.userEmail = email
	log.Println("Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.userEmail = ""
	log.Println("Logged out")
	return nil
}

// Profile shows the account and optionally fills in the missing fields.
func (a *App) Profile(ctx context.Context) error {
	view, err := a.client.Me(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Email:    " + view.Email)
	printlnFn("Username: " + view.Username)
	printlnFn("Born:     " + view.DateOfBirth)
	printlnFn("Location: " + view.Location)
	if view.ProfileComplete {
		return nil
	}

	answer, err := GetSimpleText(a.reader, "Profile is incomplete. Fill it in now? (y/n)", outWriter)
	if err != nil || answer != "y" {
		return err
	}

	username, err := GetSimpleText(a.reader, "Username", outWriter)
	if err != nil {
		return err
	}
	dob, err := GetSimpleText(a.reader, "Date of birth (YYYY-MM-DD)", outWriter)
	if err != nil {
		return err
	}
	location, err := GetSimpleText(a.reader, "Location", outWriter)
	if err != nil {
		return err
	}

	if _, err := a.client.UpdateProfile(ctx, username, dob, location); err != nil {
		log.Printf("Profile update unsuccessful: %s", err.Error())
		return err
	}
	log.Println("Profile updated")
	return nil
}
