package main

import (
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	return entity.MigrateTable(s.ctx)
}
