package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("writes an up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add booking deposits", "Track deposit amounts on bookings")

		require.NoError(t, err)
		assert.Len(t, mf.Version, 14)
		assert.FileExists(t, mf.UpPath)
		assert.FileExists(t, mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "add booking deposits")
		assert.Contains(t, string(up), "Track deposit amounts on bookings")
		assert.Contains(t, string(up), "UP migration")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Rollback")
		assert.Contains(t, string(down), "DOWN migration")
	})

	t.Run("file names carry the sanitized name", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "Add Resource-Rates table", "")

		require.NoError(t, err)
		assert.Equal(t, mf.Version+"_add_resource_rates_table.up.sql", filepath.Base(mf.UpPath))
		assert.Equal(t, mf.Version+"_add_resource_rates_table.down.sql", filepath.Base(mf.DownPath))
	})

	t.Run("creates the directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "migrations")

		_, err := CreateMigration(dir, "init", "")

		require.NoError(t, err)
		assert.DirExists(t, dir)
	})
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"add bookings", "add_bookings"},
		{"Add-Invoice Payments", "add_invoice_payments"},
		{"already_sane", "already_sane"},
		{"  spaced  out  ", "spaced_out"},
		{"drop it!", "drop_it"},
		{"v2", "v2"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitizeName(tc.in), "input %q", tc.in)
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory is empty, not an error", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))

		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("lists each pair once, in version order", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"20260810100000_create_bookings.up.sql",
			"20260810100000_create_bookings.down.sql",
			"20260811090000_create_invoices.up.sql",
			"20260811090000_create_invoices.down.sql",
			"20260810110000_create_quotations.up.sql",
			"20260810110000_create_quotations.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0644))
		}

		migrations, err := ListMigrations(dir)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"20260810100000_create_bookings",
			"20260810110000_create_quotations",
			"20260811090000_create_invoices",
		}, migrations)
	})
}
