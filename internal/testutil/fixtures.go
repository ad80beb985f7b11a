// Seed helpers that stand in for the SLTK loader, which owns all writes to
// these tables in production.

package testutil

import (
	"database/sql"
	"fmt"
	"testing"
)

// InsertGroup adds a SLTKGRP header row. Values are stored with trailing
// padding to mimic the loader's fixed-width columns.
func InsertGroup(t *testing.T, db *sql.DB, groupID, description, status string, changeDate, changeTime int, user string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO sltk_groups (group_id, description, status, change_date, change_time, user_profile)
		VALUES (?, ?, ?, ?, ?, ?)`,
		pad(groupID, 10), pad(description, 50), status, changeDate, changeTime, pad(user, 10))
	if err != nil {
		t.Fatalf("Failed to insert group %s: %v", groupID, err)
	}
}

// InsertTransaction adds a SLTKTRN row for a group.
func InsertTransaction(t *testing.T, db *sql.DB, token, groupID string, sequence int, status string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO sltk_transactions (token, group_id, sequence, status)
		VALUES (?, ?, ?, ?)`,
		pad(token, 26), pad(groupID, 10), sequence, status)
	if err != nil {
		t.Fatalf("Failed to insert transaction %s: %v", token, err)
	}
}

// InsertTransactions adds count rows with the same status, numbering
// sequences from startSeq.
func InsertTransactions(t *testing.T, db *sql.DB, groupID string, startSeq, count int, status string) {
	t.Helper()
	for i := 0; i < count; i++ {
		seq := startSeq + i
		InsertTransaction(t, db, fmt.Sprintf("%s-TKN%04d", groupID, seq), groupID, seq, status)
	}
}

// InsertErrorDetail adds a SLTKERR row for a transaction token.
func InsertErrorDetail(t *testing.T, db *sql.DB, token, messageFile, messageID, messageData, messageText string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO sltk_errors (token, message_file, message_id, message_data, message_text)
		VALUES (?, ?, ?, ?, ?)`,
		pad(token, 26), pad(messageFile, 10), pad(messageID, 7), messageData, messageText)
	if err != nil {
		t.Fatalf("Failed to insert error detail for %s: %v", token, err)
	}
}

// InsertLoad adds a SLTKLOD catalog row. available "0" means open for upload.
func InsertLoad(t *testing.T, db *sql.DB, loadID, description, available string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO sltk_loads (load_id, description, available)
		VALUES (?, ?, ?)`,
		pad(loadID, 10), pad(description, 50), available)
	if err != nil {
		t.Fatalf("Failed to insert load %s: %v", loadID, err)
	}
}

// SetGroupStatus flips a group's status code, as the loader would while
// processing advances.
func SetGroupStatus(t *testing.T, db *sql.DB, groupID, status string) {
	t.Helper()
	_, err := db.Exec(`UPDATE sltk_groups SET status = ? WHERE TRIM(group_id) = ?`, status, groupID)
	if err != nil {
		t.Fatalf("Failed to update group %s status: %v", groupID, err)
	}
}

// SetTransactionStatus flips one transaction's status code by sequence.
func SetTransactionStatus(t *testing.T, db *sql.DB, groupID string, sequence int, status string) {
	t.Helper()
	_, err := db.Exec(`
		UPDATE sltk_transactions SET status = ?
		WHERE TRIM(group_id) = ? AND sequence = ?`, status, groupID, sequence)
	if err != nil {
		t.Fatalf("Failed to update transaction %d of %s: %v", sequence, groupID, err)
	}
}

func pad(v string, width int) string {
	return fmt.Sprintf("%-*s", width, v)
}
