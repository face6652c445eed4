package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainakpaul2005/MiniTel/config"
	"github.com/mainakpaul2005/MiniTel/logging"
	"github.com/mainakpaul2005/MiniTel/schema"
	"github.com/mainakpaul2005/MiniTel/storage"
)

var baseTime = time.Unix(1_700_000_000, 0)

const day = 24 * time.Hour

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	return cfg
}

func openDir(t *testing.T, cfg *config.Config) *Directory {
	t.Helper()
	d, err := Open(cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func input(name string) schema.ContactInput {
	return schema.ContactInput{Name: name, Phone: "+1-5551234567", Email: "someone@example.com"}
}

func TestDeleteAndRestoreAll(t *testing.T) {
	d := openDir(t, testConfig(t))

	alice, err := d.Add(baseTime, schema.ContactInput{Name: "Alice", Phone: "+1-5551234567", Email: "alice@x.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, alice.ID)
	assert.False(t, alice.IsDeleted)

	deleted, err := d.Delete(baseTime.Add(time.Hour), "Alice", true)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.Equal(t, baseTime.Add(time.Hour), deleted.DeletedAt)

	_, err = d.FindByName("Alice")
	assert.ErrorIs(t, err, ErrNotFound)

	now := baseTime.Add(2 * time.Hour)
	eligible := d.ListRestoreEligible(now)
	require.Len(t, eligible, 1)
	assert.Equal(t, 1, eligible[0].ID)

	restored, err := d.RestoreAll(now)
	require.NoError(t, err)
	require.Len(t, restored, 1)

	got, err := d.FindByName("Alice")
	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)
	assert.False(t, got.IsDeleted)
	assert.True(t, got.DeletedAt.IsZero())
}

func TestAddValidation(t *testing.T) {
	d := openDir(t, testConfig(t))

	tests := []struct {
		name  string
		in    schema.ContactInput
		field string
	}{
		{"short name", schema.ContactInput{Name: "A", Phone: "5551234567", Email: "a@b.co"}, schema.FieldName},
		{"digit in name", schema.ContactInput{Name: "R2D2", Phone: "5551234567", Email: "a@b.co"}, schema.FieldName},
		{"short phone", schema.ContactInput{Name: "Bob", Phone: "555", Email: "a@b.co"}, schema.FieldPhone},
		{"bad email", schema.ContactInput{Name: "Bob", Phone: "5551234567", Email: "bob.at.home"}, schema.FieldEmail},
		{"name checked first", schema.ContactInput{Name: "A", Phone: "x", Email: "y"}, schema.FieldName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Add(baseTime, tt.in)
			var verr *schema.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	assert.Empty(t, d.ListAll())
}

func TestAddDuplicateName(t *testing.T) {
	d := openDir(t, testConfig(t))

	_, err := d.Add(baseTime, input("John Smith"))
	require.NoError(t, err)

	_, err = d.Add(baseTime, input("John Smith"))
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = d.Add(baseTime, input("  John   Smith "))
	assert.ErrorIs(t, err, ErrDuplicateName)

	assert.Len(t, d.ListAll(), 1)
}

func TestAddReusesNameOfDeletedContact(t *testing.T) {
	d := openDir(t, testConfig(t))

	first, err := d.Add(baseTime, input("Carol"))
	require.NoError(t, err)
	_, err = d.Delete(baseTime, "Carol", true)
	require.NoError(t, err)

	second, err := d.Add(baseTime, input("Carol"))
	require.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID)

	got, err := d.FindByName("Carol")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestIDsKeepGrowingPastDeletedRecords(t *testing.T) {
	d := openDir(t, testConfig(t))

	for _, name := range []string{"Ann", "Ben", "Cat"} {
		_, err := d.Add(baseTime, input(name))
		require.NoError(t, err)
	}
	_, err := d.Delete(baseTime, "Cat", true)
	require.NoError(t, err)

	dan, err := d.Add(baseTime, input("Dan"))
	require.NoError(t, err)
	assert.Equal(t, 4, dan.ID)
}

func TestAddCapacity(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxRecords = 2
	d := openDir(t, cfg)

	_, err := d.Add(baseTime, input("Ann"))
	require.NoError(t, err)
	_, err = d.Add(baseTime, input("Ben"))
	require.NoError(t, err)
	_, err = d.Add(baseTime, input("Cat"))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	d := openDir(t, testConfig(t))

	_, err := d.Add(baseTime, input("Dora"))
	require.NoError(t, err)

	c, err := d.Delete(baseTime, "Dora", false)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Equal(t, "Dora", c.Name)

	_, err = d.FindByName("Dora")
	assert.NoError(t, err)
}

func TestDeleteMissing(t *testing.T) {
	d := openDir(t, testConfig(t))

	_, err := d.Delete(baseTime, "Nobody", false)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = d.Add(baseTime, input("Eve"))
	require.NoError(t, err)
	_, err = d.Delete(baseTime, "Eve", true)
	require.NoError(t, err)

	_, err = d.Delete(baseTime, "Eve", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByIDIncludesDeleted(t *testing.T) {
	d := openDir(t, testConfig(t))

	c, err := d.Add(baseTime, input("Fay"))
	require.NoError(t, err)
	_, err = d.Delete(baseTime, "Fay", true)
	require.NoError(t, err)

	got, err := d.FindByID(c.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	_, err = d.FindByID(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestoreWindowBoundary(t *testing.T) {
	d := openDir(t, testConfig(t))

	c, err := d.Add(baseTime, input("Gus"))
	require.NoError(t, err)
	_, err = d.Delete(baseTime, "Gus", true)
	require.NoError(t, err)

	window := 15 * day
	assert.Len(t, d.ListRestoreEligible(baseTime.Add(window)), 1)
	assert.Empty(t, d.ListRestoreEligible(baseTime.Add(window+time.Second)))

	_, err = d.Restore(baseTime.Add(window+time.Second), c.ID)
	assert.ErrorIs(t, err, ErrRestoreWindowExpired)

	restored, err := d.RestoreAll(baseTime.Add(window + time.Second))
	require.NoError(t, err)
	assert.Empty(t, restored)

	got, err := d.Restore(baseTime.Add(window), c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
}

func TestRestoreErrors(t *testing.T) {
	d := openDir(t, testConfig(t))

	c, err := d.Add(baseTime, input("Hal"))
	require.NoError(t, err)

	_, err = d.Restore(baseTime, c.ID)
	assert.ErrorIs(t, err, ErrNotDeleted)

	_, err = d.Restore(baseTime, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestoreSkipsNameConflicts(t *testing.T) {
	d := openDir(t, testConfig(t))

	old, err := d.Add(baseTime, input("Ivy"))
	require.NoError(t, err)
	_, err = d.Add(baseTime, input("Jon"))
	require.NoError(t, err)

	_, err = d.Delete(baseTime, "Ivy", true)
	require.NoError(t, err)
	_, err = d.Delete(baseTime, "Jon", true)
	require.NoError(t, err)

	_, err = d.Add(baseTime, input("Ivy"))
	require.NoError(t, err)

	restored, err := d.RestoreAll(baseTime.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.Equal(t, "Jon", restored[0].Name)

	_, err = d.Restore(baseTime.Add(time.Hour), old.ID)
	assert.ErrorIs(t, err, ErrDuplicateName)

	still, err := d.FindByID(old.ID)
	require.NoError(t, err)
	assert.True(t, still.IsDeleted)
}

func TestSearch(t *testing.T) {
	d := openDir(t, testConfig(t))

	_, err := d.Add(baseTime, schema.ContactInput{Name: "Alice Cooper", Phone: "5550001111", Email: "alice@rock.com"})
	require.NoError(t, err)
	_, err = d.Add(baseTime, schema.ContactInput{Name: "Bob Dylan", Phone: "5550002222", Email: "bob@folk.com"})
	require.NoError(t, err)
	_, err = d.Add(baseTime, schema.ContactInput{Name: "Rocky Balboa", Phone: "5550003333", Email: "rocky@gym.com"})
	require.NoError(t, err)
	_, err = d.Delete(baseTime, "Rocky Balboa", true)
	require.NoError(t, err)

	names := func(cs []schema.Contact) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Alice Cooper"}, names(d.Search("ROCK")))
	assert.Equal(t, []string{"Bob Dylan"}, names(d.Search("0002")))
	assert.Equal(t, []string{"Alice Cooper", "Bob Dylan"}, names(d.Search(".com")))
	assert.Empty(t, d.Search("  "))
}

func TestListings(t *testing.T) {
	d := openDir(t, testConfig(t))

	for _, name := range []string{"Kim", "Lou", "Max"} {
		_, err := d.Add(baseTime, input(name))
		require.NoError(t, err)
	}
	_, err := d.Delete(baseTime, "Lou", true)
	require.NoError(t, err)

	assert.Len(t, d.ListAll(), 3)
	active := d.ListActive()
	require.Len(t, active, 2)
	assert.Equal(t, "Kim", active[0].Name)
	assert.Equal(t, "Max", active[1].Name)

	st := d.Stats()
	assert.Equal(t, 3, st.Records)
	assert.Equal(t, 2, st.Live)
	assert.Equal(t, 1, st.Deleted)
	assert.Equal(t, 2, st.Index.Entries)
	assert.Equal(t, 15*day, st.RestoreWindow)
}

func TestReopenRoundTrip(t *testing.T) {
	cfg := testConfig(t)

	d, err := Open(cfg, logging.Discard())
	require.NoError(t, err)
	for _, in := range []schema.ContactInput{
		{Name: "Nia", Phone: "5551112222", Email: "nia@example.com"},
		{Name: "Oto", Phone: "+44-2071234567", Email: "oto@example.org"},
		{Name: "Pam", Phone: "5553334444", Email: "pam@example.net"},
	} {
		_, err := d.Add(baseTime, in)
		require.NoError(t, err)
	}
	_, err = d.Delete(baseTime.Add(time.Minute), "Oto", true)
	require.NoError(t, err)
	before := d.ListAll()
	require.NoError(t, d.Close())

	reopened := openDir(t, cfg)
	assert.Equal(t, before, reopened.ListAll())

	_, err = reopened.FindByName("Oto")
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := reopened.FindByName("Pam")
	require.NoError(t, err)
	assert.Equal(t, 3, got.ID)

	next, err := reopened.Add(baseTime, input("Quin"))
	require.NoError(t, err)
	assert.Equal(t, 4, next.ID)
}

func TestHistory(t *testing.T) {
	d := openDir(t, testConfig(t))

	_, err := d.Add(baseTime, input("Rex"))
	require.NoError(t, err)
	_, err = d.Add(baseTime, input("Sam"))
	require.NoError(t, err)
	_, err = d.Delete(baseTime.Add(time.Hour), "Rex", true)
	require.NoError(t, err)
	_, err = d.RestoreAll(baseTime.Add(2 * time.Hour))
	require.NoError(t, err)

	entries, err := d.History("Rex")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.False(t, entries[0].Contact.IsDeleted)
	assert.True(t, entries[1].Contact.IsDeleted)
	assert.False(t, entries[2].Contact.IsDeleted)
	assert.Equal(t, baseTime.Add(time.Hour).Unix(), entries[1].Timestamp.Unix())
}

func TestBackupOncePerInterval(t *testing.T) {
	cfg := testConfig(t)
	d := openDir(t, cfg)

	backupFor := func(at time.Time) string {
		return filepath.Join(cfg.DataDir, "contacts_backup_"+at.Format("20060102")+".csv")
	}

	_, err := d.Add(baseTime, input("Tom"))
	require.NoError(t, err)
	assert.FileExists(t, backupFor(baseTime))

	_, err = d.Add(baseTime.Add(day), input("Uma"))
	require.NoError(t, err)
	assert.NoFileExists(t, backupFor(baseTime.Add(day)))

	later := baseTime.Add(day + time.Hour)
	_, err = d.Add(later, input("Vic"))
	require.NoError(t, err)
	assert.FileExists(t, backupFor(later))

	assert.Equal(t, 2, d.Stats().Backups)
	assert.Equal(t, later, d.Stats().LastBackup)
}

func TestSnapshotFailureKeepsMemoryState(t *testing.T) {
	cfg := testConfig(t)
	d := openDir(t, cfg)

	// A directory in place of the snapshot makes the final rename fail
	require.NoError(t, os.Mkdir(cfg.SnapshotPath(), 0755))

	c, err := d.Add(baseTime, input("Wes"))
	var ioErr *storage.IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.Equal(t, "Wes", c.Name)

	got, err := d.FindByName("Wes")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	entries, err := d.History("Wes")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExport(t *testing.T) {
	cfg := testConfig(t)
	cfg.ExportFile = "export.csv"
	d := openDir(t, cfg)

	_, err := d.Add(baseTime, input("Xia"))
	require.NoError(t, err)
	_, err = d.Add(baseTime, input("Yan"))
	require.NoError(t, err)
	_, err = d.Delete(baseTime, "Yan", true)
	require.NoError(t, err)

	require.NoError(t, d.Export())
	records, report, err := storage.NewSnapshotFile(cfg.ExportPath(), nil).Load()
	require.NoError(t, err)
	assert.True(t, report.HeaderFound)
	assert.Equal(t, d.ListAll(), records)

	dbPath := filepath.Join(cfg.DataDir, "contacts.db")
	require.NoError(t, d.ExportSQLite(context.Background(), dbPath))
	assert.FileExists(t, dbPath)
}

func loadSnapshot(t *testing.T, cfg *config.Config) []schema.Contact {
	t.Helper()
	records, _, err := storage.NewSnapshotFile(cfg.SnapshotPath(), nil).Load()
	require.NoError(t, err)
	return records
}

func TestSubSecondDeleteSurvivesReopen(t *testing.T) {
	cfg := testConfig(t)

	d, err := Open(cfg, logging.Discard())
	require.NoError(t, err)
	_, err = d.Add(baseTime, input("Zoe"))
	require.NoError(t, err)

	deletedAt := baseTime.Add(500 * time.Millisecond)
	c, err := d.Delete(deletedAt, "Zoe", true)
	require.NoError(t, err)
	assert.Equal(t, baseTime, c.DeletedAt)

	before := d.ListAll()
	edge := deletedAt.Add(15*day - 300*time.Millisecond)
	eligibleBefore := len(d.ListRestoreEligible(edge))
	require.NoError(t, d.Close())

	reopened := openDir(t, cfg)
	assert.Equal(t, before, reopened.ListAll())
	assert.Equal(t, eligibleBefore, len(reopened.ListRestoreEligible(edge)))
}

func TestExportToSnapshotDuringAdds(t *testing.T) {
	cfg := testConfig(t)
	d := openDir(t, cfg)

	const adds = 30
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			_, err := d.Add(baseTime, input(letterName(i)))
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			assert.NoError(t, d.Export())
		}
	}()
	wg.Wait()

	assert.Len(t, loadSnapshot(t, cfg), adds)
}

func TestBackupFailureDoesNotAbortMutation(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backup.Dir = "backups"
	// A regular file where the backup directory should be
	require.NoError(t, os.WriteFile(cfg.BackupDir(), []byte("x"), 0644))
	d := openDir(t, cfg)

	_, err := d.Add(baseTime, input("Abe"))
	require.NoError(t, err)
	_, err = d.Delete(baseTime.Add(2*day), "Abe", true)
	require.NoError(t, err)

	records := loadSnapshot(t, cfg)
	require.Len(t, records, 1)
	assert.Equal(t, "Abe", records[0].Name)
	assert.True(t, records[0].IsDeleted)
}

func TestAuditFailureDoesNotAbortMutation(t *testing.T) {
	cfg := testConfig(t)
	d := openDir(t, cfg)
	require.NoError(t, d.audit.Close())

	_, err := d.Add(baseTime, input("Bea"))
	require.NoError(t, err)
	_, err = d.Add(baseTime, input("Cal"))
	require.NoError(t, err)
	_, err = d.Delete(baseTime, "Bea", true)
	require.NoError(t, err)

	records := loadSnapshot(t, cfg)
	require.Len(t, records, 2)
	assert.True(t, records[0].IsDeleted)
	assert.Equal(t, "Cal", records[1].Name)
}
