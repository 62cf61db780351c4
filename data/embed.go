package data

import (
	_ "embed"
)

//go:embed initdb/mariadb/001-ddl-app-user.sql
var InitdbMariaDBAppUser string

//go:embed initdb/mariadb/002-ddl-privileges.sql
var InitdbMariaDBPrivileges string
