// Package all links every storage backend into the binary. Import it for
// its side effects:
//
//	import _ "boxoffice/internal/storage/all"
package all

import (
	_ "boxoffice/internal/storage/mssql"
	_ "boxoffice/internal/storage/postgres"
	_ "boxoffice/internal/storage/sqlite"
)
