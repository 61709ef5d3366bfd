package sqlstore

const schemaVersion = 1

// Схема в двух диалектах. Запросы хранилища общие для обоих, поэтому
// даты хранятся строкой YYYY-MM-DD, флаги - числами 0/1.
var schemaMySQL = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (version INT PRIMARY KEY)`,

	`CREATE TABLE IF NOT EXISTS item_routes (
		item_code VARCHAR(64) NOT NULL PRIMARY KEY,
		route_id  VARCHAR(64) NOT NULL
	) DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS route_operations (
		id       BIGINT AUTO_INCREMENT PRIMARY KEY,
		route_id VARCHAR(64)  NOT NULL,
		sequence INT          NOT NULL,
		op_name  VARCHAR(128) NOT NULL,
		UNIQUE KEY uq_route_seq (route_id, sequence)
	) DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS operation_times (
		op_name      VARCHAR(128) NOT NULL PRIMARY KEY,
		station      VARCHAR(64)  NOT NULL,
		std_time_min DOUBLE       NOT NULL DEFAULT 0
	) DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS temp_orders (
		id            BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_number  VARCHAR(64)  NOT NULL,
		doc_type      VARCHAR(64)  NOT NULL,
		item_code     VARCHAR(64)  NOT NULL,
		item_name     VARCHAR(255) NOT NULL,
		quantity      DOUBLE       NOT NULL DEFAULT 0,
		delivery_date VARCHAR(10)  NOT NULL,
		plate_count   VARCHAR(32)  NOT NULL,
		designer      VARCHAR(64)  NOT NULL,
		customer      VARCHAR(255) NOT NULL,
		handler       VARCHAR(64)  NOT NULL,
		issuer        VARCHAR(64)  NOT NULL,
		status        VARCHAR(16)  NOT NULL,
		log_msg       TEXT         NOT NULL,
		error_reason  TEXT         NOT NULL
	) DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS daily_orders (
		id                BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_number      VARCHAR(64)  NOT NULL,
		doc_type          VARCHAR(64)  NOT NULL,
		item_code         VARCHAR(64)  NOT NULL,
		item_name         VARCHAR(255) NOT NULL,
		quantity          DOUBLE       NOT NULL DEFAULT 0,
		delivery_date     VARCHAR(10)  NOT NULL,
		plate_count       VARCHAR(32)  NOT NULL,
		designer          VARCHAR(64)  NOT NULL,
		customer          VARCHAR(255) NOT NULL,
		handler           VARCHAR(64)  NOT NULL,
		issuer            VARCHAR(64)  NOT NULL,
		status            VARCHAR(16)  NOT NULL,
		log_msg           TEXT         NOT NULL,
		error_reason      TEXT         NOT NULL,
		is_converted      TINYINT      NOT NULL DEFAULT 0,
		conversion_status VARCHAR(16)  NOT NULL DEFAULT 'pending',
		conversion_note   TEXT         NOT NULL,
		conversion_claim  VARCHAR(36)  NOT NULL DEFAULT '',
		claimed_at        BIGINT       NOT NULL DEFAULT 0,
		KEY idx_daily_order_number (order_number),
		KEY idx_daily_conversion (is_converted, conversion_status)
	) DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS station_time_summary (
		id                    BIGINT AUTO_INCREMENT PRIMARY KEY,
		source_order_id       BIGINT       NOT NULL,
		order_number          VARCHAR(64)  NOT NULL,
		doc_type              VARCHAR(64)  NOT NULL,
		item_code             VARCHAR(64)  NOT NULL,
		item_name             VARCHAR(255) NOT NULL,
		quantity              DOUBLE       NOT NULL DEFAULT 0,
		plate_count           VARCHAR(32)  NOT NULL,
		delivery_date         VARCHAR(10)  NOT NULL,
		designer              VARCHAR(64)  NOT NULL,
		customer              VARCHAR(255) NOT NULL,
		handler               VARCHAR(64)  NOT NULL,
		issuer                VARCHAR(64)  NOT NULL,
		sequence              INT          NOT NULL,
		station               VARCHAR(64)  NOT NULL,
		op_name               VARCHAR(128) NOT NULL,
		basis_text            VARCHAR(64)  NOT NULL,
		std_time              DOUBLE       NOT NULL DEFAULT 0,
		total_time_min        DOUBLE       NOT NULL DEFAULT 0,
		assigned_section      VARCHAR(32)  NULL,
		scheduled_date        VARCHAR(10)  NULL,
		production_machine_id BIGINT       NULL,
		KEY idx_sts_source (source_order_id, sequence),
		KEY idx_sts_slot (production_machine_id, scheduled_date)
	) DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS production_machines (
		id            BIGINT AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(128) NOT NULL,
		category      VARCHAR(32)  NOT NULL,
		station_type  VARCHAR(64)  NOT NULL,
		daily_minutes DOUBLE       NOT NULL DEFAULT 0,
		is_active     TINYINT      NOT NULL DEFAULT 1,
		UNIQUE KEY uq_machine_name (name)
	) DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS factory_calendar (
		date       VARCHAR(10)  NOT NULL PRIMARY KEY,
		is_holiday TINYINT      NOT NULL DEFAULT 0,
		note       VARCHAR(255) NOT NULL DEFAULT ''
	) DEFAULT CHARSET=utf8mb4`,
}

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`,

	`CREATE TABLE IF NOT EXISTS item_routes (
		item_code TEXT NOT NULL PRIMARY KEY,
		route_id  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS route_operations (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		route_id TEXT    NOT NULL,
		sequence INTEGER NOT NULL,
		op_name  TEXT    NOT NULL,
		UNIQUE (route_id, sequence)
	)`,

	`CREATE TABLE IF NOT EXISTS operation_times (
		op_name      TEXT NOT NULL PRIMARY KEY,
		station      TEXT NOT NULL,
		std_time_min REAL NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS temp_orders (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		order_number  TEXT NOT NULL,
		doc_type      TEXT NOT NULL,
		item_code     TEXT NOT NULL,
		item_name     TEXT NOT NULL,
		quantity      REAL NOT NULL DEFAULT 0,
		delivery_date TEXT NOT NULL,
		plate_count   TEXT NOT NULL,
		designer      TEXT NOT NULL,
		customer      TEXT NOT NULL,
		handler       TEXT NOT NULL,
		issuer        TEXT NOT NULL,
		status        TEXT NOT NULL,
		log_msg       TEXT NOT NULL,
		error_reason  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS daily_orders (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		order_number      TEXT    NOT NULL,
		doc_type          TEXT    NOT NULL,
		item_code         TEXT    NOT NULL,
		item_name         TEXT    NOT NULL,
		quantity          REAL    NOT NULL DEFAULT 0,
		delivery_date     TEXT    NOT NULL,
		plate_count       TEXT    NOT NULL,
		designer          TEXT    NOT NULL,
		customer          TEXT    NOT NULL,
		handler           TEXT    NOT NULL,
		issuer            TEXT    NOT NULL,
		status            TEXT    NOT NULL,
		log_msg           TEXT    NOT NULL,
		error_reason      TEXT    NOT NULL,
		is_converted      INTEGER NOT NULL DEFAULT 0,
		conversion_status TEXT    NOT NULL DEFAULT 'pending',
		conversion_note   TEXT    NOT NULL DEFAULT '',
		conversion_claim  TEXT    NOT NULL DEFAULT '',
		claimed_at        INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_order_number ON daily_orders(order_number)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_conversion ON daily_orders(is_converted, conversion_status)`,

	`CREATE TABLE IF NOT EXISTS station_time_summary (
		id                    INTEGER PRIMARY KEY AUTOINCREMENT,
		source_order_id       INTEGER NOT NULL,
		order_number          TEXT    NOT NULL,
		doc_type              TEXT    NOT NULL,
		item_code             TEXT    NOT NULL,
		item_name             TEXT    NOT NULL,
		quantity              REAL    NOT NULL DEFAULT 0,
		plate_count           TEXT    NOT NULL,
		delivery_date         TEXT    NOT NULL,
		designer              TEXT    NOT NULL,
		customer              TEXT    NOT NULL,
		handler               TEXT    NOT NULL,
		issuer                TEXT    NOT NULL,
		sequence              INTEGER NOT NULL,
		station               TEXT    NOT NULL,
		op_name               TEXT    NOT NULL,
		basis_text            TEXT    NOT NULL,
		std_time              REAL    NOT NULL DEFAULT 0,
		total_time_min        REAL    NOT NULL DEFAULT 0,
		assigned_section      TEXT    NULL,
		scheduled_date        TEXT    NULL,
		production_machine_id INTEGER NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sts_source ON station_time_summary(source_order_id, sequence)`,
	`CREATE INDEX IF NOT EXISTS idx_sts_slot ON station_time_summary(production_machine_id, scheduled_date)`,

	`CREATE TABLE IF NOT EXISTS production_machines (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		name          TEXT    NOT NULL UNIQUE,
		category      TEXT    NOT NULL,
		station_type  TEXT    NOT NULL,
		daily_minutes REAL    NOT NULL DEFAULT 0,
		is_active     INTEGER NOT NULL DEFAULT 1
	)`,

	`CREATE TABLE IF NOT EXISTS factory_calendar (
		date       TEXT    NOT NULL PRIMARY KEY,
		is_holiday INTEGER NOT NULL DEFAULT 0,
		note       TEXT    NOT NULL DEFAULT ''
	)`,
}
