package model

type LogType int

const (
	LogStart   LogType = 1
	LogFail    LogType = 2
	LogSuccess LogType = 3
)

func (t LogType) String() string {
	switch t {
	case LogStart:
		return "start"
	case LogFail:
		return "fail"
	case LogSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// LogEntry is one challenge lifecycle transition. Rows are append-only and
// log_id is a strictly increasing total order across all clients and users.
type LogEntry struct {
	LogID    int64   `db:"log_id" json:"log_id"`
	ClientID int64   `db:"client_id" json:"client_id"`
	Username string  `db:"username" json:"username"`
	LogTime  int64   `db:"log_time" json:"log_time"`
	LogType  LogType `db:"log_type" json:"log_type"`
}
