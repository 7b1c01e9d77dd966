package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/etnz/lotbook"
	"github.com/google/go-cmp/cmp"
)

func lot(id, symbol, portfolio string, side lotbook.Side, quantity, price float64, day int) lotbook.Lot {
	return lotbook.Lot{
		ID:        id,
		Symbol:    symbol,
		Portfolio: portfolio,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Time:      time.Date(2025, time.February, day, 0, 0, 0, 0, time.UTC),
	}
}

// exerciseStore runs the LotStore contract against s, which must be empty.
func exerciseStore(t *testing.T, s lotbook.LotStore) {
	t.Helper()
	ctx := context.Background()

	a, err := s.Add(ctx, lot("", "AAPL", "main", lotbook.Buy, 10, 100, 1))
	if err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	if a.ID == "" {
		t.Fatal("Add() did not assign an ID")
	}
	if _, err := s.Add(ctx, lot("b", "MSFT", "main", lotbook.Buy, 5, 300, 2)); err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	if _, err := s.Add(ctx, lot("c", "AAPL", "pea", lotbook.Sell, 2, 120, 3)); err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	if _, err := s.Add(ctx, lot("b", "MSFT", "main", lotbook.Buy, 5, 300, 2)); !errors.Is(err, lotbook.ErrDuplicate) {
		t.Errorf("Add() of a taken id: got %v, want ErrDuplicate", err)
	}

	symbols, err := s.Symbols(ctx, "")
	if err != nil {
		t.Fatalf("Symbols() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"AAPL", "MSFT"}, symbols); diff != "" {
		t.Errorf("Symbols() mismatch (-want +got):\n%s", diff)
	}
	symbols, _ = s.Symbols(ctx, "pea")
	if diff := cmp.Diff([]string{"AAPL"}, symbols); diff != "" {
		t.Errorf("Symbols(pea) mismatch (-want +got):\n%s", diff)
	}

	aapl, err := s.Lots(ctx, lotbook.Filter{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("Lots() unexpected error: %v", err)
	}
	if len(aapl) != 2 || aapl[0].ID != a.ID || aapl[1].ID != "c" {
		t.Errorf("Lots(AAPL) = %v, want lots %q and %q in insertion order", aapl, a.ID, "c")
	}
	main, _ := s.Lots(ctx, lotbook.Filter{Symbol: "AAPL", Portfolio: "main"})
	if len(main) != 1 || main[0].ID != a.ID {
		t.Errorf("Lots(AAPL, main) = %v, want only %q", main, a.ID)
	}

	edited := a
	edited.Quantity = 12
	if _, err := s.Update(ctx, edited); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	aapl, _ = s.Lots(ctx, lotbook.Filter{Symbol: "AAPL"})
	if diff := cmp.Diff(edited, aapl[0]); diff != "" {
		t.Errorf("Update() did not replace the lot in place (-want +got):\n%s", diff)
	}
	if _, err := s.Update(ctx, lot("zz", "AAPL", "", lotbook.Buy, 1, 1, 1)); !errors.Is(err, lotbook.ErrNotFound) {
		t.Errorf("Update() of an unknown id: got %v, want ErrNotFound", err)
	}

	if err := s.Remove(ctx, "b"); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	if err := s.Remove(ctx, "b"); !errors.Is(err, lotbook.ErrNotFound) {
		t.Errorf("Remove() twice: got %v, want ErrNotFound", err)
	}
	all, _ := s.Lots(ctx, lotbook.Filter{})
	if len(all) != 2 {
		t.Errorf("Lots() after remove = %d lots, want 2", len(all))
	}
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemory_DoesNotAliasInput(t *testing.T) {
	input := []lotbook.Lot{lot("a", "AAPL", "", lotbook.Buy, 1, 1, 1)}
	m := NewMemory(input...)
	input[0].Quantity = 99
	got, _ := m.Lots(context.Background(), lotbook.Filter{})
	if got[0].Quantity != 1 {
		t.Errorf("NewMemory() aliases its input: quantity = %v", got[0].Quantity)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lots.jsonl")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() of a missing file unexpected error: %v", err)
	}
	exerciseStore(t, f)

	// Reopening reads back what was persisted.
	want, _ := f.Lots(context.Background(), lotbook.Filter{})
	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() unexpected error: %v", err)
	}
	got, _ := reopened.Lots(context.Background(), lotbook.Filter{})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reopened store mismatch (-want +got):\n%s", diff)
	}

	// No temporary file is left behind.
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the lots file", len(entries))
	}
}

func TestFile_FormatError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lots.jsonl")
	content := `{"id":"a","side":"buy","quantity":1,"price":1,"time":"2025-1-1"}

{"id":"b","side":"hold"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := OpenFile(path)
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("OpenFile() error = %v, want a format error on line 3", err)
	}
}

func TestEncodeLots(t *testing.T) {
	var b strings.Builder
	lots := []lotbook.Lot{lot("a", "AAPL", "", lotbook.Buy, 1, 2.5, 1)}
	if err := EncodeLots(&b, lots); err != nil {
		t.Fatalf("EncodeLots() unexpected error: %v", err)
	}
	want := `{"id":"a","time":"2025-02-01T00:00:00Z","symbol":"AAPL","side":"buy","quantity":1,"price":2.5}` + "\n"
	if b.String() != want {
		t.Errorf("EncodeLots() = %q, want %q", b.String(), want)
	}
}

func TestFile_Sort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lots.jsonl")
	content := `{"id":"b","time":"2025-02-02","symbol":"AAPL","side":"SELL","quantity":"1","price":10}
{"id":"a","time":"2025-02-01","symbol":"AAPL","side":"buy","quantity":2,"price":9,"fee":0}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() unexpected error: %v", err)
	}
	if err := f.Sort(context.Background()); err != nil {
		t.Fatalf("Sort() unexpected error: %v", err)
	}
	got, _ := os.ReadFile(path)
	want := `{"id":"a","time":"2025-02-01T00:00:00Z","symbol":"AAPL","side":"buy","quantity":2,"price":9}
{"id":"b","time":"2025-02-02T00:00:00Z","symbol":"AAPL","side":"sell","quantity":1,"price":10}
`
	if string(got) != want {
		t.Errorf("sorted file = %s, want %s", got, want)
	}
}

func TestFile_KeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not supported")
	}
	ctx := context.Background()
	dir := t.TempDir()

	created := filepath.Join(dir, "new.jsonl")
	f, err := OpenFile(created)
	if err != nil {
		t.Fatalf("OpenFile() unexpected error: %v", err)
	}
	if _, err := f.Add(ctx, lot("a", "AAPL", "", lotbook.Buy, 1, 1, 1)); err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	if fi, _ := os.Stat(created); fi.Mode().Perm() != 0644 {
		t.Errorf("new lots file mode = %v, want 0644", fi.Mode().Perm())
	}

	existing := filepath.Join(dir, "lots.jsonl")
	if err := os.WriteFile(existing, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(existing, 0640); err != nil {
		t.Fatal(err)
	}
	f, err = OpenFile(existing)
	if err != nil {
		t.Fatalf("OpenFile() unexpected error: %v", err)
	}
	if _, err := f.Add(ctx, lot("a", "AAPL", "", lotbook.Buy, 1, 1, 1)); err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	if fi, _ := os.Stat(existing); fi.Mode().Perm() != 0640 {
		t.Errorf("lots file mode = %v, want 0640 kept", fi.Mode().Perm())
	}
}

func TestDecodeLots_LongLine(t *testing.T) {
	memo := strings.Repeat("x", 200*1024)
	input := `{"id":"a","time":"2025-02-01","symbol":"AAPL","side":"buy","quantity":1,"price":1,"memo":"` + memo + `"}` + "\n" +
		`{"id":"b","time":"2025-02-02","symbol":"AAPL","side":"buy","quantity":1,"price":1}` + "\n"
	lots, err := DecodeLots(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLots() unexpected error: %v", err)
	}
	if len(lots) != 2 || lots[0].Memo != memo {
		t.Errorf("DecodeLots() = %d lots, want 2 with the long memo kept", len(lots))
	}
}
