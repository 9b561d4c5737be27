package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Times are stored as Unix milliseconds.
const schema = `
CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    leader_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    expires_at INTEGER NOT NULL,
    status TEXT NOT NULL,
    min_joiners INTEGER NOT NULL,
    initial_payment INTEGER NOT NULL,
    expected_friends INTEGER NOT NULL,
    payment_authority TEXT NOT NULL DEFAULT '',
    invite_token TEXT NOT NULL DEFAULT '',
    finalized_at INTEGER,
    version INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS basket_items (
    group_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    product_id TEXT NOT NULL,
    name TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    solo_price INTEGER NOT NULL,
    market_price INTEGER NOT NULL,
    base_price INTEGER NOT NULL,
    friend1_price INTEGER,
    friend2_price INTEGER,
    friend3_price INTEGER,
    PRIMARY KEY (group_id, position),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL,
    joined_at INTEGER NOT NULL,
    paid INTEGER NOT NULL DEFAULT 0,
    payment_amount INTEGER NOT NULL DEFAULT 0,
    paid_at INTEGER,
    UNIQUE (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS settlements (
    group_id TEXT PRIMARY KEY,
    status TEXT NOT NULL,
    final_price INTEGER NOT NULL,
    initial_payment INTEGER NOT NULL,
    expected_friends INTEGER NOT NULL,
    paid_friends INTEGER NOT NULL,
    raw_delta INTEGER NOT NULL,
    delta INTEGER NOT NULL,
    outcome TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id)
);

CREATE TABLE IF NOT EXISTS payment_tasks (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL UNIQUE,
    amount INTEGER NOT NULL,
    direction TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    attempts INTEGER NOT NULL DEFAULT 0,
    last_error TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id)
);

CREATE INDEX IF NOT EXISTS idx_groups_leader_id ON groups(leader_id);
CREATE INDEX IF NOT EXISTS idx_participants_group_id ON participants(group_id);
CREATE INDEX IF NOT EXISTS idx_payment_tasks_status ON payment_tasks(status);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
