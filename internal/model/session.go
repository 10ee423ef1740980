package model

// Session is a bearer session proving an operator authenticated via the
// comment-challenge flow. Expiry is a unix timestamp; expired rows are purged
// lazily on the next read or write that touches the table.
type Session struct {
	SessionID int64  `db:"session_id" json:"session_id"`
	Expiry    int64  `db:"expiry" json:"expiry"`
	Username  string `db:"username" json:"username"`
}
