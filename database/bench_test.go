package database

import (
	"fmt"
	"testing"

	"github.com/mainakpaul2005/MiniTel/config"
	"github.com/mainakpaul2005/MiniTel/logging"
	"github.com/mainakpaul2005/MiniTel/schema"
)

// letterName maps i to a unique name made of letters only
func letterName(i int) string {
	b := []byte("User ")
	for {
		b = append(b, byte('a'+i%26))
		i /= 26
		if i == 0 {
			break
		}
	}
	return string(b)
}

func benchDirectory(b *testing.B, rows int) *Directory {
	b.Helper()
	cfg := config.Default()
	cfg.DataDir = b.TempDir()
	d, err := Open(cfg, logging.Discard())
	if err != nil {
		b.Fatalf("open failed: %v", err)
	}
	b.Cleanup(func() { d.Close() })

	for i := 0; i < rows; i++ {
		in := schema.ContactInput{
			Name:  letterName(i),
			Phone: fmt.Sprintf("555%07d", i),
			Email: fmt.Sprintf("user%d@example.com", i),
		}
		if _, err := d.Add(baseTime, in); err != nil {
			b.Fatalf("add failed: %v", err)
		}
	}
	return d
}

// BenchmarkAdd measures adding contacts, including the snapshot rewrite
func BenchmarkAdd(b *testing.B) {
	d := benchDirectory(b, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		in := schema.ContactInput{Name: letterName(i), Phone: "5551234567", Email: "bench@example.com"}
		if _, err := d.Add(baseTime, in); err != nil {
			b.Fatalf("add failed: %v", err)
		}
	}
}

// BenchmarkFindByName measures lookups through the name index
func BenchmarkFindByName(b *testing.B) {
	const rows = 1000
	d := benchDirectory(b, rows)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.FindByName(letterName(i % rows)); err != nil {
			b.Fatalf("find failed: %v", err)
		}
	}
}

// BenchmarkSearch measures the full scan used by substring search
func BenchmarkSearch(b *testing.B) {
	const rows = 1000
	d := benchDirectory(b, rows)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if got := d.Search(fmt.Sprintf("%07d", i%rows)); len(got) != 1 {
			b.Fatalf("search returned %d contacts", len(got))
		}
	}
}

func TestLetterNameUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		n := letterName(i)
		if seen[n] {
			t.Fatalf("duplicate name %q at %d", n, i)
		}
		if err := schema.ValidateName(n); err != nil {
			t.Fatalf("invalid name %q: %v", n, err)
		}
		seen[n] = true
	}
}
