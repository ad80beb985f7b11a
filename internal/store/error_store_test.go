package store_test

import (
	"strings"
	"testing"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/store"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/testutil"
)

func TestGetErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	testutil.InsertGroup(t, db, "LOAD1", "Vendor master load", "E", 20260115, 93012, "VIJAY")
	// Sequence order is deliberately shuffled on insert.
	testutil.InsertTransaction(t, db, "TKN-3", "LOAD1", 3, "E")
	testutil.InsertTransaction(t, db, "TKN-1", "LOAD1", 1, "E")
	testutil.InsertTransaction(t, db, "TKN-2", "LOAD1", 2, "X")
	testutil.InsertErrorDetail(t, db, "TKN-1", "SLTKMSGF", "XML0161", "SHEET1", "No transactions found in spreadsheet")

	t.Run("Only error transactions, sequence ascending", func(t *testing.T) {
		records, err := s.GetErrors("LOAD1")
		if err != nil {
			t.Fatalf("GetErrors failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("Expected 2 error records, got %d", len(records))
		}
		if records[0].Sequence != 1 || records[1].Sequence != 3 {
			t.Errorf("Records out of sequence order: %d, %d", records[0].Sequence, records[1].Sequence)
		}
		if records[0].Token != "TKN-1" {
			t.Errorf("Expected trimmed token 'TKN-1', got %q", records[0].Token)
		}
	})

	t.Run("Resolution guidance attached by message id", func(t *testing.T) {
		records, err := s.GetErrors("LOAD1")
		if err != nil {
			t.Fatalf("GetErrors failed: %v", err)
		}
		withDetail := records[0]
		if withDetail.MessageID == nil || *withDetail.MessageID != "XML0161" {
			t.Fatalf("Expected message id XML0161, got %v", withDetail.MessageID)
		}
		if withDetail.Resolution.Issue != "No transactions found in spreadsheet" {
			t.Errorf("Wrong resolution issue: %q", withDetail.Resolution.Issue)
		}
		if withDetail.Resolution.SQL == nil || !strings.Contains(*withDetail.Resolution.SQL, "<load_name>") {
			t.Errorf("Expected SQL template with load name placeholder, got %v", withDetail.Resolution.SQL)
		}
	})

	t.Run("Missing detail row yields generic guidance", func(t *testing.T) {
		records, err := s.GetErrors("LOAD1")
		if err != nil {
			t.Fatalf("GetErrors failed: %v", err)
		}
		bare := records[1]
		if bare.MessageID != nil || bare.MessageText != nil {
			t.Errorf("Expected nil message fields for missing detail, got %+v", bare)
		}
		if bare.Resolution.Issue != "Unknown error" {
			t.Errorf("Expected generic resolution, got %q", bare.Resolution.Issue)
		}
	})

	t.Run("Group without errors returns empty", func(t *testing.T) {
		testutil.InsertGroup(t, db, "CLEAN1", "No problems here", "X", 20260116, 90000, "VIJAY")
		records, err := s.GetErrors("CLEAN1")
		if err != nil {
			t.Fatalf("GetErrors failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("Expected no error records, got %d", len(records))
		}
	})
}
