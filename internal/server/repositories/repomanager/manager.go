// Package repomanager builds repositories over a shared database handle.
// Handing a dbx.DBTX to each factory lets services run several repositories
// inside one transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/carblock/internal/dbx"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/blocks"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/userplates"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	UserPlates(db dbx.DBTX) userplates.Repository
	Blocks(db dbx.DBTX) blocks.Repository
	Notifications(db dbx.DBTX) notifications.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
