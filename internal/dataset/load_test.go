package dataset_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pierrec/lz4/v4"
	"golang.org/x/text/encoding/charmap"

	"github.com/KaramelBytes/tabsift/internal/dataset"
)

const gtdSample = "eventid,iyear,country_txt,nkill,approxdate\n" +
	"197000000001,1970,Dominican Republic,1,\n" +
	"197000000002,1970,Mexico,,\n" +
	"197001000001,1970,Philippines,0,\n" +
	"197001000002,1970,Greece,,January 2 1970\n"

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "gtd.csv", []byte(gtdSample))
	ds, err := dataset.Load(p, dataset.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Name() != "gtd.csv" {
		t.Fatalf("name = %q", ds.Name())
	}
	if rows, cols := ds.Shape(); rows != 4 || cols != 5 {
		t.Fatalf("shape = (%d,%d)", rows, cols)
	}
	nkill, ok := ds.Column("nkill")
	if !ok {
		t.Fatalf("nkill missing")
	}
	if nkill.MissingCount() != 2 {
		t.Fatalf("nkill missing = %d", nkill.MissingCount())
	}
	approx, _ := ds.Column("approxdate")
	if approx.MissingCount() != 3 {
		t.Fatalf("approxdate missing = %d", approx.MissingCount())
	}
}

func TestLoadTSVAndRaggedRows(t *testing.T) {
	p := writeFile(t, "events.tsv", []byte("a\tb\tc\n1\t2\n4\t5\t6\t7\n"))
	ds, err := dataset.Load(p, dataset.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rows, cols := ds.Shape(); rows != 2 || cols != 3 {
		t.Fatalf("shape = (%d,%d)", rows, cols)
	}
	c, _ := ds.Column("c")
	if !c.IsMissing(0) {
		t.Fatalf("short row should be padded with a missing cell")
	}
	if len(ds.Notes()) != 1 || !strings.Contains(ds.Notes()[0], "2 rows") {
		t.Fatalf("notes = %v", ds.Notes())
	}
}

func TestLoadMaxRowsAndDuplicateHeader(t *testing.T) {
	p := writeFile(t, "dup.csv", []byte("x,x,\n1,2,3\n4,5,6\n7,8,9\n"))
	opt := dataset.DefaultLoadOptions()
	opt.MaxRows = 2
	ds, err := dataset.Load(p, opt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := ds.Names(); !reflect.DeepEqual(got, []string{"x", "x_2", "unnamed_3"}) {
		t.Fatalf("names = %v", got)
	}
	if ds.Rows() != 2 {
		t.Fatalf("rows = %d", ds.Rows())
	}
	if notes := ds.Notes(); len(notes) != 1 || !strings.Contains(notes[0], "first 2 rows") {
		t.Fatalf("notes = %v", notes)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	p := writeFile(t, "empty.csv", nil)
	ds, err := dataset.Load(p, dataset.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rows, cols := ds.Shape(); rows != 0 || cols != 0 {
		t.Fatalf("shape = (%d,%d)", rows, cols)
	}
}

func TestLoadLatin1(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte("city,nkill\nSão Paulo,2\nBogotá,\n"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	p := writeFile(t, "latin.csv", raw)
	opt := dataset.DefaultLoadOptions()
	opt.Encoding = "latin1"
	ds, err := dataset.Load(p, opt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	city, _ := ds.Column("city")
	if v, _ := city.Value(0); v != "São Paulo" {
		t.Fatalf("city = %q", v)
	}

	opt.Encoding = "ebcdic"
	if _, err := dataset.Load(p, opt); err == nil {
		t.Fatalf("expected unsupported encoding error")
	}
}

func TestLoadUTF8BOM(t *testing.T) {
	p := writeFile(t, "bom.csv", append([]byte("\xef\xbb\xbf"), []byte("eventid,nkill\n1,2\n")...))
	ds, err := dataset.Load(p, dataset.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := ds.Column("eventid"); !ok {
		t.Fatalf("BOM not stripped: %v", ds.Names())
	}
}

func TestLoadLZ4(t *testing.T) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write([]byte(gtdSample)); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close lz4: %v", err)
	}
	p := writeFile(t, "gtd.csv.lz4", buf.Bytes())
	ds, err := dataset.Load(p, dataset.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Rows() != 4 || ds.Width() != 5 {
		t.Fatalf("shape = (%d,%d)", ds.Rows(), ds.Width())
	}
}

func TestLoadUnsupported(t *testing.T) {
	p := writeFile(t, "notes.docx", []byte("x"))
	if _, err := dataset.Load(p, dataset.DefaultLoadOptions()); !errors.Is(err, dataset.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if dataset.Supported(p) {
		t.Fatalf("docx should not be supported")
	}
}

func TestWriteAndReloadXLSX(t *testing.T) {
	src := writeFile(t, "gtd.csv", []byte(gtdSample))
	ds, err := dataset.Load(src, dataset.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out := filepath.Join(t.TempDir(), "nested", "clean.xlsx")
	if err := dataset.Write(ds, out); err != nil {
		t.Fatalf("Write: %v", err)
	}
	opt := dataset.DefaultLoadOptions()
	opt.SheetName = "CLEANED"
	back, err := dataset.Load(out, opt)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if rows, cols := back.Shape(); rows != 4 || cols != 5 {
		t.Fatalf("shape = (%d,%d)", rows, cols)
	}
	nkill, _ := back.Column("nkill")
	if nkill.MissingCount() != 2 {
		t.Fatalf("nkill missing = %d", nkill.MissingCount())
	}
	if v, ok := nkill.Value(2); !ok || v != "0" {
		t.Fatalf("nkill[2] = %q,%v", v, ok)
	}

	opt.SheetName = "nope"
	if _, err := dataset.Load(out, opt); err == nil || !strings.Contains(err.Error(), "Available sheets: cleaned") {
		t.Fatalf("expected sheet error, got %v", err)
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	src := writeFile(t, "gtd.csv", []byte(gtdSample))
	ds, err := dataset.Load(src, dataset.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out := filepath.Join(t.TempDir(), "clean.tsv")
	if err := dataset.Write(ds.DropColumns("approxdate"), out); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if lines[0] != "eventid\tiyear\tcountry_txt\tnkill" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[2] != "197000000002\t1970\tMexico\t" {
		t.Fatalf("row 2 = %q", lines[2])
	}
}
