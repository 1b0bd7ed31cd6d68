package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/dmitrijs2005/carblock/internal/platex"
)

func (a *App) listPlates(ctx context.Context) {
	plates, err := a.plates.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}
	if len(plates) == 0 {
		fmt.Println("No plates registered, use 'addplate'.")
		return
	}
	for _, p := range plates {
		line := fmt.Sprintf("%s  %s", p.ID, platex.FormatPlate(p.Plate))
		if p.IsPrimary {
			line += "  [primary]"
		}
		if p.DepartureTime != "" {
			line += "  leaves at " + p.DepartureTime
		}
		fmt.Println(line)
	}
}

func (a *App) addPlate(ctx context.Context, args []string) {
	if len(args) < 1 {
		log.Println("usage: addplate <plate> [departure HH:MM]")
		return
	}
	departure := ""
	if len(args) > 1 {
		departure = args[1]
	}

	plate, err := a.plates.Add(ctx, args[0], departure)
	if err != nil {
		log.Println(err.Error())
		return
	}
	log.Printf("Added %s", platex.FormatPlate(plate.Plate))
}

func (a *App) deletePlate(ctx context.Context, args []string) {
	if len(args) != 1 {
		log.Println("usage: delplate <plate id>")
		return
	}
	if err := a.plates.Delete(ctx, args[0]); err != nil {
		log.Println(err.Error())
		return
	}
	log.Println("Plate removed")
}

func (a *App) setPrimaryPlate(ctx context.Context, args []string) {
	if len(args) != 1 {
		log.Println("usage: primary <plate id>")
		return
	}
	if err := a.plates.SetPrimary(ctx, args[0]); err != nil {
		log.Println(err.Error())
		return
	}
	log.Println("Primary plate updated")
}

func (a *App) setDeparture(ctx context.Context, args []string) {
	if len(args) != 2 {
		log.Println("usage: departure <plate id> <HH:MM>")
		return
	}
	if err := a.plates.SetDepartureTime(ctx, args[0], args[1]); err != nil {
		log.Println(err.Error())
		return
	}
	log.Println("Departure time updated")
}
