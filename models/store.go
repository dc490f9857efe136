package models

import (
	"github.com/sirupsen/logrus"

	"bitbucket.org/cloudkitchenhq/orders_backend/sheetdb"
)

// Store is the read/write surface over the spreadsheet. The sheet client is
// injected so tests can run against a fake and no cross-request state hides
// in package globals.
type Store struct {
	sheets *sheetdb.Client
	logger *logrus.Logger
}

func NewStore(client *sheetdb.Client, logger *logrus.Logger) *Store {
	return &Store{sheets: client, logger: logger}
}
