package model

// Challenge is a pending proof-of-ownership record, unique per
// (client_id, username). The code is what the target account must post
// publicly; expiry is a unix timestamp.
type Challenge struct {
	ClientID int64  `db:"client_id" json:"client_id"`
	Username string `db:"username" json:"username"`
	Code     string `db:"code" json:"code"`
	Expiry   int64  `db:"expiry" json:"expiry"`
}
