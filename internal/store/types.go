package store

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

// protocolRow is one line of the search join before folding.
type protocolRow struct {
	UUID     string `db:"uuid"`
	Examiner string `db:"examiner"`
	Subject  string `db:"subject"`
	Stex     string `db:"stex"`
	Season   string `db:"season"`
	Year     int64  `db:"year"`
}
