package migrations

import "embed"

// PostgresFS holds the schema for fit results and sensor property tables.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS holds the schema for the sensor reading time series.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
