package model

// DebugSessionID is the reserved session id that bypasses the store and
// resolves to DebugClient. It exists so the API can be exercised without a
// live Scratch account.
const DebugSessionID int64 = 0

// DebugClientID is the client id of the debug principal.
const DebugClientID int64 = 0

type Client struct {
	ClientID int64  `db:"client_id" json:"client_id"`
	Token    string `db:"token" json:"token"`
	Username string `db:"username" json:"username"`
}

// DebugClient returns the constant client the debug session resolves to.
func DebugClient() Client {
	return Client{ClientID: DebugClientID, Token: "", Username: "Kenny2scratch"}
}
