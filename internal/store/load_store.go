package store

import (
	"fmt"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/models"
)

// GetAvailableLoads lists the load ids open for upload from the SLTKLOD
// catalog. available='0' marks a load the loader will accept files for.
func (s *Store) GetAvailableLoads() ([]models.LoadInfo, error) {
	rows, err := s.db.Query(`
		SELECT load_id, description
		FROM sltk_loads
		WHERE TRIM(available) = '0'
		ORDER BY load_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query loads: %w", err)
	}
	defer rows.Close()

	var loads []models.LoadInfo
	for rows.Next() {
		var l models.LoadInfo
		if err := rows.Scan(&l.LoadID, &l.Description); err != nil {
			return nil, err
		}
		l.LoadID = trimmed(l.LoadID)
		l.Description = trimmed(l.Description)
		loads = append(loads, l)
	}
	return loads, rows.Err()
}
