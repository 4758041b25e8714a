package storage

// schema statements are applied in order; each is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS user_addresses (
		user_id INTEGER PRIMARY KEY,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS establishments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		latitude REAL NOT NULL,
		longitude REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS offers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		establishment_id INTEGER NOT NULL REFERENCES establishments(id),
		product TEXT NOT NULL,
		price REAL NOT NULL,
		valid_from TIMESTAMP NOT NULL,
		valid_to TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_offers_product ON offers(product)`,
	`CREATE INDEX IF NOT EXISTS idx_offers_validity ON offers(valid_from, valid_to)`,
}
