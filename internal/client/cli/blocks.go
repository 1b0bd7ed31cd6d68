package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/dmitrijs2005/carblock/internal/platex"
)

func (a *App) createBlock(ctx context.Context, args []string) {
	if len(args) < 1 {
		log.Println("usage: block <plate> [departure HH:MM]")
		return
	}
	plate := args[0]
	departure := ""
	if len(args) > 1 {
		departure = args[1]
	}

	block, err := a.blocks.Create(ctx, plate, true, departure)
	if err != nil {
		log.Println(err.Error())
		return
	}
	log.Printf("Blocked %s (block %s)", platex.FormatPlate(block.BlockedPlate), block.ID)
}

func (a *App) deleteBlock(ctx context.Context, args []string) {
	if len(args) != 1 {
		log.Println("usage: unblock <block id>")
		return
	}
	if err := a.blocks.Delete(ctx, args[0]); err != nil {
		log.Println(err.Error())
		return
	}
	log.Println("Block removed")
}

func (a *App) listMyBlocks(ctx context.Context) {
	blocks, err := a.blocks.Mine(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}
	if len(blocks) == 0 {
		fmt.Println("You are not blocking anyone.")
		return
	}
	for _, b := range blocks {
		fmt.Printf("%s  %s -> %s  since %s\n",
			b.ID, platex.FormatPlate(b.BlockerPlate), platex.FormatPlate(b.BlockedPlate),
			b.CreatedAt.Local().Format("02.01 15:04"))
	}
}

func (a *App) listBlocked(ctx context.Context, args []string) {
	filter := ""
	if len(args) > 0 {
		filter = args[0]
	}

	blocks, err := a.blocks.AgainstMyPlates(ctx, filter)
	if err != nil {
		log.Println(err.Error())
		return
	}
	if len(blocks) == 0 {
		fmt.Println("Nobody is blocking your plates.")
		return
	}
	for _, b := range blocks {
		line := fmt.Sprintf("%s  %s blocks %s", b.ID,
			platex.FormatPlate(b.BlockerPlate), platex.FormatPlate(b.BlockedPlate))
		if b.Blocker.Name != "" {
			line += "  by " + b.Blocker.Name
		}
		if b.Blocker.Phone != "" {
			line += " " + b.Blocker.Phone
		}
		if b.BlockerDepartureTime != "" {
			line += "  leaves at " + b.BlockerDepartureTime
		}
		fmt.Println(line)
	}
}

func (a *App) checkBlock(ctx context.Context, args []string) {
	if len(args) != 1 {
		log.Println("usage: check <plate>")
		return
	}

	res, err := a.blocks.Check(ctx, args[0])
	if err != nil {
		log.Println(err.Error())
		return
	}
	if !res.IsBlocked {
		fmt.Println("Not blocked.")
		return
	}
	fmt.Printf("Blocked by %s since %s (block %s)\n",
		platex.FormatPlate(res.Block.BlockerPlate),
		res.Block.CreatedAt.Local().Format("02.01 15:04"), res.Block.ID)
}

func (a *App) warnOwner(ctx context.Context, args []string) {
	if len(args) != 1 {
		log.Println("usage: warn <block id>")
		return
	}
	if err := a.blocks.WarnOwner(ctx, args[0]); err != nil {
		log.Println(err.Error())
		return
	}
	log.Println("Owner warned")
}

func (a *App) ownerByPlate(ctx context.Context, args []string) {
	if len(args) != 1 {
		log.Println("usage: owner <plate>")
		return
	}

	profile, err := a.blocks.OwnerByPlate(ctx, args[0])
	if err != nil {
		log.Println(err.Error())
		return
	}
	if profile.Name == "" && profile.Phone == "" && profile.Telegram == "" {
		fmt.Println("The owner prefers not to share contacts.")
		return
	}
	if profile.Name != "" {
		fmt.Println("name:", profile.Name)
	}
	if profile.Phone != "" {
		fmt.Println("phone:", profile.Phone)
	}
	if profile.Telegram != "" {
		fmt.Println("telegram:", profile.Telegram)
	}
}
