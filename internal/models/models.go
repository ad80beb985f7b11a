package models

// Group is a row from SLTKGRP, the upload batch header table. The loader
// writes it; this service only reads. All CHAR fields are trimmed of their
// fixed-width padding before leaving the store layer.
type Group struct {
	GroupID     string `json:"groupId"`
	Description string `json:"description"`
	Status      string `json:"status"`
	StatusText  string `json:"statusText"`
	ChangeDate  int    `json:"changeDate"`
	ChangeTime  int    `json:"changeTime"`
	User        string `json:"user"`
}

// Progress is the derived per-group transaction tally. It is computed fresh
// from SLTKTRN on every status request, never stored.
type Progress struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Errors     int `json:"errors"`
	Processing int `json:"processing"`
	Pending    int `json:"pending"`
	Percentage int `json:"percentage"`
}

// GroupStatus is the full snapshot returned by /api/status and pushed over
// the websocket on every change.
type GroupStatus struct {
	Group
	Progress  Progress `json:"progress"`
	Timestamp string   `json:"timestamp"`
}

// Resolution is static remediation guidance for a loader message id.
// SQL carries an optional diagnostic query template.
type Resolution struct {
	Issue string  `json:"issue"`
	Fix   string  `json:"fix"`
	SQL   *string `json:"sql"`
}

// ErrorRecord is an Error-status transaction joined to its SLTKERR detail.
// The detail row may be absent, so the message fields are nullable.
type ErrorRecord struct {
	Token       string     `json:"token"`
	Sequence    int        `json:"sequence"`
	Status      string     `json:"status"`
	MessageFile *string    `json:"messageFile"`
	MessageID   *string    `json:"messageId"`
	MessageData *string    `json:"messageData"`
	MessageText *string    `json:"messageText"`
	Resolution  Resolution `json:"resolution"`
}

// LoadInfo is an available load id from the SLTKLOD catalog.
type LoadInfo struct {
	LoadID      string `json:"load_id"`
	Description string `json:"description"`
}

// HistoryFilter narrows the /api/history query. Zero values mean "no
// filter"; dates use the loader's integer encoding and are inclusive.
type HistoryFilter struct {
	User     string
	Status   string
	FromDate *int
	ToDate   *int
	Limit    int
}
