package store_test

import (
	"testing"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/store"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/testutil"
)

func TestGetAvailableLoads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	testutil.InsertLoad(t, db, "VENDOR", "Vendor master", "0")
	testutil.InsertLoad(t, db, "ASSET", "Fixed assets", "0")
	testutil.InsertLoad(t, db, "CLOSED", "Retired load", "1")

	loads, err := s.GetAvailableLoads()
	if err != nil {
		t.Fatalf("GetAvailableLoads failed: %v", err)
	}
	if len(loads) != 2 {
		t.Fatalf("Expected 2 available loads, got %d", len(loads))
	}
	// Ordered by load id.
	if loads[0].LoadID != "ASSET" || loads[1].LoadID != "VENDOR" {
		t.Errorf("Wrong order: %s, %s", loads[0].LoadID, loads[1].LoadID)
	}
	if loads[0].Description != "Fixed assets" {
		t.Errorf("Expected trimmed description, got %q", loads[0].Description)
	}
}
