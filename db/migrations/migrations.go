package migrations

import "embed"

// FS embeds the SQL migrations for the postgres ledger. The golang-migrate
// library reads them through the iofs driver.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the binary expects.
const Version = 1
