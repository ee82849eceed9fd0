package migrations

// initialSchema creates the conversation store. sessions groups turns by the
// {chat_id}_{user_id} session key; turns holds the per-message log the bridge
// replays to the agent service as history.
const initialSchema = `
CREATE TABLE IF NOT EXISTS sessions (
    session_key TEXT PRIMARY KEY,
    chat_id     TEXT NOT NULL,
    user_id     TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS turns (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    session_key TEXT NOT NULL,
    message_id  TEXT NOT NULL,
    role        TEXT NOT NULL,
    content     TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (session_key) REFERENCES sessions(session_key)
);

CREATE INDEX IF NOT EXISTS idx_turns_session_key ON turns(session_key, id);
CREATE INDEX IF NOT EXISTS idx_turns_created_at ON turns(created_at);
`

// GetInitialSchema returns the schema applied when the database is opened.
func GetInitialSchema() (string, error) {
	return initialSchema, nil
}
