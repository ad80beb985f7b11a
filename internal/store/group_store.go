package store

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/models"
)

// GetGroupStatus fetches the SLTKGRP header for a group and derives a fresh
// progress snapshot from its SLTKTRN rows. Returns ErrGroupNotFound when the
// id does not resolve. Pure read; never mutates loader state.
func (s *Store) GetGroupStatus(groupID string) (*models.GroupStatus, error) {
	groupID = trimmed(groupID)

	var g models.Group
	err := s.db.QueryRow(`
		SELECT group_id, description, status, change_date, change_time, user_profile
		FROM sltk_groups
		WHERE TRIM(group_id) = ?`, groupID,
	).Scan(&g.GroupID, &g.Description, &g.Status, &g.ChangeDate, &g.ChangeTime, &g.User)
	if err == sql.ErrNoRows {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query group %s: %w", groupID, err)
	}

	g.GroupID = trimmed(g.GroupID)
	g.Description = trimmed(g.Description)
	g.Status = trimmed(g.Status)
	g.User = trimmed(g.User)
	g.StatusText = models.StatusLabel(g.Status)

	progress, err := s.getProgress(groupID)
	if err != nil {
		return nil, err
	}

	return &models.GroupStatus{
		Group:     g,
		Progress:  progress,
		Timestamp: time.Now().Format(time.RFC3339),
	}, nil
}

// getProgress tallies a group's transactions by outcome in a single query.
// SUM over zero rows yields NULL, which reads back as zero here.
func (s *Store) getProgress(groupID string) (models.Progress, error) {
	var p models.Progress
	var completed, errored, processing, pending sql.NullInt64

	err := s.db.QueryRow(`
		SELECT
			COUNT(*),
			SUM(CASE WHEN TRIM(status) = 'X' THEN 1 ELSE 0 END),
			SUM(CASE WHEN TRIM(status) = 'E' THEN 1 ELSE 0 END),
			SUM(CASE WHEN TRIM(status) = 'O' THEN 1 ELSE 0 END),
			SUM(CASE WHEN TRIM(status) = 'P' THEN 1 ELSE 0 END)
		FROM sltk_transactions
		WHERE TRIM(group_id) = ?`, groupID,
	).Scan(&p.Total, &completed, &errored, &processing, &pending)
	if err != nil {
		return p, fmt.Errorf("failed to query progress for group %s: %w", groupID, err)
	}

	p.Completed = int(completed.Int64)
	p.Errors = int(errored.Int64)
	p.Processing = int(processing.Int64)
	p.Pending = int(pending.Int64)
	p.Percentage = percentage(p.Completed, p.Total)
	return p, nil
}

// percentage rounds half away from zero and is defined as 0 for an empty
// group, so it always lands in [0,100].
func percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}

// GetHistory lists group headers matching the filter, most recently changed
// first. Date bounds are inclusive and use the loader's integer encoding.
func (s *Store) GetHistory(filter models.HistoryFilter) ([]models.Group, error) {
	var conditions []string
	var params []interface{}

	if filter.User != "" {
		conditions = append(conditions, "TRIM(user_profile) = ?")
		params = append(params, trimmed(filter.User))
	}
	if filter.Status != "" {
		conditions = append(conditions, "TRIM(status) = ?")
		params = append(params, trimmed(filter.Status))
	}
	if filter.FromDate != nil {
		conditions = append(conditions, "change_date >= ?")
		params = append(params, *filter.FromDate)
	}
	if filter.ToDate != nil {
		conditions = append(conditions, "change_date <= ?")
		params = append(params, *filter.ToDate)
	}

	query := `
		SELECT group_id, description, status, change_date, change_time, user_profile
		FROM sltk_groups`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY change_date DESC, change_time DESC LIMIT ?"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	params = append(params, limit)

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.GroupID, &g.Description, &g.Status, &g.ChangeDate, &g.ChangeTime, &g.User); err != nil {
			return nil, err
		}
		g.GroupID = trimmed(g.GroupID)
		g.Description = trimmed(g.Description)
		g.Status = trimmed(g.Status)
		g.User = trimmed(g.User)
		g.StatusText = models.StatusLabel(g.Status)
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
