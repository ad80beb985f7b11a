// Static remediation guidance for loader message ids. The table is compiled
// in; it is reference material for operators, not persisted state.
package resolution

import (
	"strings"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/models"
)

func sqlTemplate(s string) *string { return &s }

var guidance = map[string]models.Resolution{
	"XML0021": {
		Issue: "Object not found",
		Fix:   "Check object name spelling in spreadsheet. Verify object exists in SLTKOBJ table.",
		SQL:   sqlTemplate("SELECT * FROM SLTKOBJ WHERE ZONAME = '<object_name>'"),
	},
	"XML0141": {
		Issue: "Profile handle error",
		Fix:   "Verify user profile exists and has proper authority. Contact system administrator.",
	},
	"XML0161": {
		Issue: "No transactions found in spreadsheet",
		Fix:   "Check that spreadsheet has data rows. Verify worksheet name matches configuration.",
		SQL:   sqlTemplate("SELECT * FROM SLTKSNU WHERE Z8LOAD = '<load_name>'"),
	},
	"XML0162": {
		Issue: "Worksheet not found",
		Fix:   "Verify worksheet name in spreadsheet matches SLTKSNU configuration.",
		SQL:   sqlTemplate("SELECT * FROM SLTKSNU WHERE Z8LOAD = '<load_name>'"),
	},
	"XML0163": {
		Issue: "Worksheet processed (informational)",
		Fix:   "No action needed - this is an informational message.",
	},
}

// Lookup returns the guidance for a message id. Ids not in the table (or
// missing details with no id at all) get a generic entry so the field is
// always present in API responses.
func Lookup(messageID string) models.Resolution {
	if r, ok := guidance[strings.TrimSpace(messageID)]; ok {
		return r
	}
	return models.Resolution{
		Issue: "Unknown error",
		Fix:   "Review error message and contact support if needed.",
	}
}
