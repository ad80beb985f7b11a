package store

import (
	"database/sql"
	"fmt"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/models"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/resolution"
)

// GetErrors returns a group's Error-status transactions joined to their
// SLTKERR detail, in sequence order. Sequence order is the loader's
// processing order and must be preserved for display. A transaction may
// have no detail row; its message fields come back nil and resolve to the
// generic guidance entry.
func (s *Store) GetErrors(groupID string) ([]models.ErrorRecord, error) {
	groupID = trimmed(groupID)

	rows, err := s.db.Query(`
		SELECT
			t.token, t.sequence, t.status,
			e.message_file, e.message_id, e.message_data, e.message_text
		FROM sltk_transactions t
		LEFT JOIN sltk_errors e ON t.token = e.token
		WHERE TRIM(t.group_id) = ? AND TRIM(t.status) = 'E'
		ORDER BY t.sequence`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query errors for group %s: %w", groupID, err)
	}
	defer rows.Close()

	var records []models.ErrorRecord
	for rows.Next() {
		var rec models.ErrorRecord
		var msgFile, msgID, msgData, msgText sql.NullString
		if err := rows.Scan(&rec.Token, &rec.Sequence, &rec.Status, &msgFile, &msgID, &msgData, &msgText); err != nil {
			return nil, err
		}
		rec.Token = trimmed(rec.Token)
		rec.Status = trimmed(rec.Status)
		rec.MessageFile = trimmedPtr(msgFile)
		rec.MessageID = trimmedPtr(msgID)
		rec.MessageData = trimmedPtr(msgData)
		rec.MessageText = trimmedPtr(msgText)

		messageID := ""
		if rec.MessageID != nil {
			messageID = *rec.MessageID
		}
		rec.Resolution = resolution.Lookup(messageID)

		records = append(records, rec)
	}
	return records, rows.Err()
}
