package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS buffers (
	id           TEXT PRIMARY KEY,
	short_name   TEXT NOT NULL DEFAULT '',
	full_name    TEXT NOT NULL DEFAULT '',
	server       TEXT NOT NULL DEFAULT '',
	kind         TEXT NOT NULL DEFAULT 'channel',
	title        TEXT NOT NULL DEFAULT '',
	unread       INTEGER NOT NULL DEFAULT 0,
	notification INTEGER NOT NULL DEFAULT 0,
	last_message TEXT NOT NULL DEFAULT '',
	last_prefix  TEXT NOT NULL DEFAULT '',
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const metaActiveBuffer = "active_buffer"

const bufferColumns = `id, short_name, full_name, server, kind, title, unread, notification, last_message, last_prefix`
