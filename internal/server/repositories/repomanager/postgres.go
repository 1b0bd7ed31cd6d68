package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/carblock/internal/dbx"
	"github.com/dmitrijs2005/carblock/internal/server/migrations"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/blocks"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/userplates"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) UserPlates(db dbx.DBTX) userplates.Repository {
	return userplates.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Blocks(db dbx.DBTX) blocks.Repository {
	return blocks.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Notifications(db dbx.DBTX) notifications.Repository {
	return notifications.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
