package cli

import (
	"context"
	"log"
)

func (a *App) Login(ctx context.Context) {

	phone, err := GetSimpleText(a.reader, "Enter phone number")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	started, err := a.auth.StartAuth(ctx, phone)
	if err != nil {
		log.Printf("Could not request code: %s", err.Error())
		return
	}
	if started.Code != "" {
		// development servers echo the code back
		log.Printf("Verification code: %s", started.Code)
	}

	code, err := GetSimpleText(a.reader, "Enter the code from the SMS")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	res, err := a.auth.VerifyAuth(ctx, phone, code)
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return
	}

	if res.IsNew {
		log.Println("Welcome! Your account has been created. Add your plate with 'addplate'.")
	} else {
		log.Println("Login successful")
	}
}

func (a *App) showProfile(ctx context.Context) {
	profile, err := a.apiClient.Me(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}
	log.Printf("id: %s", profile.ID)
	log.Printf("phone: %s", profile.Phone)
	if profile.Name != "" {
		log.Printf("name: %s", profile.Name)
	}
	if profile.Telegram != "" {
		log.Printf("telegram: %s", profile.Telegram)
	}
	log.Printf("contacts visible to others: %v", profile.ShowContacts)
	if profile.DepartureTime != "" {
		log.Printf("departure time: %s", profile.DepartureTime)
	}
}
