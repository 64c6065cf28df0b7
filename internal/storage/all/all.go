// Package all registers every storage backend with the storage factory.
// The job config specifies which one to use, but the binary builds in
// support for all of them.
package all

import (
	_ "reportetl/internal/storage/mssql"
	_ "reportetl/internal/storage/mysql"
	_ "reportetl/internal/storage/postgres"
	_ "reportetl/internal/storage/sqlite"
)
