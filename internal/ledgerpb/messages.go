package ledgerpb

// Record is the wire form of a ledger record. Timestamps are unix milliseconds.
type Record struct {
	ID          int64  `json:"id,string"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       uint64 `json:"value,string"`
	Owner       string `json:"owner"`
	CreatedAt   int64  `json:"created_at,string"`
	UpdatedAt   int64  `json:"updated_at,string"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type ChallengeRequest struct {
	Address string `json:"address"`
}

type ChallengeResponse struct {
	Nonce     string `json:"nonce"`
	ExpiresAt int64  `json:"expires_at,string"`
}

type AuthenticateRequest struct {
	Address string `json:"address"`
	Nonce   string `json:"nonce"`
	// Signature is the base64 ed25519 signature of the nonce.
	Signature string `json:"signature"`
}

type AuthenticateResponse struct {
	AccessToken string `json:"access_token"`
}

type CreateRecordRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       uint64 `json:"value,string"`
}

type UpdateRecordRequest struct {
	ID          int64  `json:"id,string"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       uint64 `json:"value,string"`
}

type RecordIDRequest struct {
	ID int64 `json:"id,string"`
}

type RecordResponse struct {
	Record Record `json:"record"`
}

type DeleteRecordResponse struct{}

type ListRecordsRequest struct {
	// Owner restricts the list to one address when non-empty.
	Owner string `json:"owner,omitempty"`
}

type ListRecordsResponse struct {
	Records []Record `json:"records"`
}

type CountRecordsRequest struct{}

type CountRecordsResponse struct {
	Count int64 `json:"count,string"`
}

type ExportSnapshotRequest struct{}

type ExportSnapshotResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
