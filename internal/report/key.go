package report

import (
	"fmt"
	"time"

	"medrep-bot/pkg"
)

// Key identifies one report document: a calendar day, optionally scoped to
// the representative it belongs to.  The key is the only handle the
// conversation layer ever holds; the document itself is located (or
// recreated) per operation.
type Key struct {
	Day      time.Time
	Identity *pkg.Identity
}

// Filename derives the deterministic document name for the key, e.g.
// "Report_Mon_05-Feb.xlsx" for a day-scoped key or
// "Sara42_Report_Mon_05-Feb.xlsx" for an identity-scoped one.
func (k Key) Filename() string {
	base := fmt.Sprintf("Report_%s_%s.xlsx", k.Day.Format("Mon"), k.Day.Format("02-Jan"))
	if k.Identity == nil {
		return base
	}
	return fmt.Sprintf("%s%s_%s", k.Identity.FirstName, k.Identity.UserID, base)
}

// Document is a lightweight handle for a stored report.  It carries no open
// resources; stores resolve the key again on every operation.
type Document struct {
	Key  Key
	Name string
}
