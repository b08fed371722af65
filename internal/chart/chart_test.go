package chart

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/tabsift/internal/dataset"
)

func chartDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("gtd.csv",
		dataset.ParseColumn("nkill", []string{"1", "", "0", "2", "3", "1", "4", "12"}, nil),
		dataset.ParseColumn("nwound", []string{"0", "5", "2", "2", "", "7", "1", "0"}, nil),
		dataset.ParseColumn("iyear", []string{"1970", "1970", "1970", "1970", "1970", "1970", "1970", "1970"}, nil),
		dataset.ParseColumn("Attack Type", []string{"Bombing", "Armed Assault", "", "Bombing", "Bombing", "Hijacking", "Bombing", "Assassination"}, nil),
		dataset.ParseColumn("property", []string{"1", "0", "1", "1", "0", "1", "0", "1"}, nil),
		dataset.ParseColumn("ransom", []string{"0", "0", "0", "0", "1", "0", "0", "0"}, nil),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ds
}

func TestRenderWritesHistogramsAndGrid(t *testing.T) {
	opt := DefaultOptions()
	opt.Dir = filepath.Join(t.TempDir(), "charts")
	paths, err := Render(context.Background(), chartDataset(t), opt)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []string{
		"hist_nkill.png", "hist_nwound.png", "hist_iyear.png", "hist_property.png", "hist_ransom.png", "boxplots.png",
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Fatalf("path[%d] = %s, want %s", i, filepath.Base(p), want[i])
		}
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", p)
		}
	}
}

func TestRenderSelectedColumnsAndKinds(t *testing.T) {
	opt := DefaultOptions()
	opt.Dir = t.TempDir()
	opt.Kinds = []string{"box"}
	opt.Columns = []string{"nwound"}
	paths, err := Render(context.Background(), chartDataset(t), opt)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "boxplots.png" {
		t.Fatalf("paths = %v", paths)
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	ds := chartDataset(t)
	opt := DefaultOptions()
	opt.Dir = t.TempDir()

	opt.Columns = []string{"Attack Type"}
	if _, err := Render(context.Background(), ds, opt); err == nil {
		t.Fatalf("expected non-numeric column error")
	}
	opt.Columns = []string{"nope"}
	if _, err := Render(context.Background(), ds, opt); err == nil {
		t.Fatalf("expected unknown column error")
	}
	opt.Columns = nil
	opt.Kinds = []string{"pie"}
	if _, err := Render(context.Background(), ds, opt); err == nil {
		t.Fatalf("expected kind error")
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opt := DefaultOptions()
	opt.Dir = t.TempDir()
	if _, err := Render(ctx, chartDataset(t), opt); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRenderNoNumericColumns(t *testing.T) {
	ds, _ := dataset.New("text.csv", dataset.ParseColumn("gname", []string{"a", "b"}, nil))
	opt := DefaultOptions()
	opt.Dir = filepath.Join(t.TempDir(), "unused")
	paths, err := Render(context.Background(), ds, opt)
	if err != nil || paths != nil {
		t.Fatalf("paths=%v err=%v", paths, err)
	}
	if _, err := os.Stat(opt.Dir); !os.IsNotExist(err) {
		t.Fatalf("dir should not be created")
	}
}

func TestFileNamesUnique(t *testing.T) {
	got := fileNames([]series{{name: "Attack Type"}, {name: "attack_type"}, {name: "%"}})
	want := []string{"attack-type", "attack-type-2", "column"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fileNames = %v, want %v", got, want)
		}
	}
}
