package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) listNotifications(ctx context.Context, args []string) {
	unreadOnly := len(args) > 0 && args[0] == "unread"

	items, err := a.notifications.List(ctx, unreadOnly)
	if err != nil {
		log.Println(err.Error())
		return
	}
	if len(items) == 0 {
		fmt.Println("No notifications.")
		return
	}
	for _, n := range items {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s %s  [%s] %s: %s\n", marker, n.ID, n.Type, n.Title, n.Message)
	}
}

func (a *App) markRead(ctx context.Context, args []string) {
	if len(args) != 1 {
		log.Println("usage: read <notification id>")
		return
	}
	if err := a.notifications.MarkRead(ctx, args[0]); err != nil {
		log.Println(err.Error())
	}
}

func (a *App) markAllRead(ctx context.Context) {
	if err := a.notifications.MarkAllRead(ctx); err != nil {
		log.Println(err.Error())
		return
	}
	log.Println("All notifications marked read")
}
