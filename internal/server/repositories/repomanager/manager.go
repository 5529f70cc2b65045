// Package repomanager wires repository constructors together behind one
// interface so services can vend repositories bound to either a plain
// connection or a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"salesreport/internal/dbx"
	"salesreport/internal/server/repositories/permissions"
	"salesreport/internal/server/repositories/reports"
	"salesreport/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Permissions(db dbx.DBTX) permissions.Repository
	DailyActivities(db dbx.DBTX) reports.DailyRepository
	WeeklyPlans(db dbx.DBTX) reports.WeeklyRepository
}
