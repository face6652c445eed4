package executor

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mainakpaul2005/MiniTel/database"
	"github.com/mainakpaul2005/MiniTel/eventlog"
	"github.com/mainakpaul2005/MiniTel/schema"
)

func status(c schema.Contact, now time.Time) string {
	if !c.IsDeleted {
		return "active"
	}
	return "deleted " + humanize.RelTime(c.DeletedAt, now, "ago", "from now")
}

func formatContact(c schema.Contact, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:     %d\n", c.ID)
	fmt.Fprintf(&b, "Name:   %s\n", c.Name)
	fmt.Fprintf(&b, "Phone:  %s\n", c.Phone)
	fmt.Fprintf(&b, "Email:  %s\n", c.Email)
	fmt.Fprintf(&b, "Status: %s", status(c, now))
	return b.String()
}

// formatTable renders contacts as aligned columns
func formatTable(contacts []schema.Contact, now time.Time) string {
	if len(contacts) == 0 {
		return "No contacts found"
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tEMAIL\tSTATUS")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Phone, c.Email, status(c, now))
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func formatHistory(entries []eventlog.Entry) string {
	if len(entries) == 0 {
		return "No history found"
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tID\tPHONE\tEMAIL\tSTATE")
	for _, e := range entries {
		state := "active"
		if e.Contact.IsDeleted {
			state = "deleted"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			e.Timestamp.Format(eventlog.TimestampLayout), e.Contact.ID, e.Contact.Phone, e.Contact.Email, state)
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func formatStats(st database.Stats, now time.Time) string {
	lastBackup := "never (this session)"
	if !st.LastBackup.IsZero() {
		lastBackup = humanize.RelTime(st.LastBackup, now, "ago", "from now")
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Contacts:\t%s\n", humanize.Comma(int64(st.Records)))
	fmt.Fprintf(tw, "Active:\t%s\n", humanize.Comma(int64(st.Live)))
	fmt.Fprintf(tw, "Deleted:\t%s\n", humanize.Comma(int64(st.Deleted)))
	fmt.Fprintf(tw, "Index buckets:\t%d used of %d, longest chain %d\n",
		st.Index.UsedBuckets, st.Index.Buckets, st.Index.LongestChain)
	fmt.Fprintf(tw, "Restore window:\t%s\n", st.RestoreWindow)
	fmt.Fprintf(tw, "Snapshot:\t%s\n", st.SnapshotPath)
	fmt.Fprintf(tw, "Audit log:\t%s\n", st.AuditPath)
	fmt.Fprintf(tw, "Backups:\t%d, last %s\n", st.Backups, lastBackup)
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}
