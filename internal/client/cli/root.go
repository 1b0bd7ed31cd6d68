package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if phone := a.session.Get().Phone; phone != "" {
		s = phone
	} else if a.auth.IsAuthenticated() {
		s = "authenticated"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// gateAllows reports whether a command may run under the current version
// gate state. When an update is forced, only updating and leaving remain
// available.
func gateAllows(cmd string) bool {
	switch cmd {
	case "help", "update", "exit", "quit":
		return true
	}
	return false
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to carblock CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("carblock %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		if a.gate.Blocked() && !gateAllows(cmd) {
			log.Println("This client version is no longer supported; run 'update' first.")
			continue
		}

		switch cmd {
		case "help":
			if a.auth.IsAuthenticated() {
				fmt.Println("Available commands: me, plates, addplate, delplate, primary, departure,")
				fmt.Println("  block, unblock, myblocks, blocked, check, warn, owner,")
				fmt.Println("  notifications, read, readall, update, logout, exit")
			} else {
				fmt.Println("Available commands: login, check, update, exit")
			}

		case "login":
			a.Login(ctx)

		case "logout":
			if err := a.auth.Logout(); err != nil {
				log.Println(err.Error())
			} else {
				log.Println("Logged out")
			}

		case "me":
			a.showProfile(ctx)

		case "plates":
			a.listPlates(ctx)

		case "addplate":
			a.addPlate(ctx, args)

		case "delplate":
			a.deletePlate(ctx, args)

		case "primary":
			a.setPrimaryPlate(ctx, args)

		case "departure":
			a.setDeparture(ctx, args)

		case "block":
			a.createBlock(ctx, args)

		case "unblock":
			a.deleteBlock(ctx, args)

		case "myblocks":
			a.listMyBlocks(ctx)

		case "blocked":
			a.listBlocked(ctx, args)

		case "check":
			a.checkBlock(ctx, args)

		case "warn":
			a.warnOwner(ctx, args)

		case "owner":
			a.ownerByPlate(ctx, args)

		case "notifications":
			a.listNotifications(ctx, args)

		case "read":
			a.markRead(ctx, args)

		case "readall":
			a.markAllRead(ctx)

		case "update":
			a.downloadUpdate(ctx)

		case "exit", "quit":
			return

		default:
			log.Printf("Unknown command %q, type 'help'", cmd)
		}
	}
}
