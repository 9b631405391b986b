package entity

import "testing"

func TestNewFileDerivesExtension(t *testing.T) {
	cases := []struct {
		name       string
		ext        string
		advertised bool
	}{
		{name: "patients.XLSX", ext: ".xlsx", advertised: true},
		{name: "labs.csv", ext: ".csv", advertised: true},
		{name: "old.xls", ext: ".xls", advertised: true},
		{name: "notes.pdf", ext: ".pdf", advertised: false},
		{name: "README", ext: "", advertised: false},
	}

	for _, tc := range cases {
		f := NewFile(tc.name, 10, "application/octet-stream")
		if f.Extension != tc.ext {
			t.Fatalf("%s: extension = %q, want %q", tc.name, f.Extension, tc.ext)
		}
		if got := f.AdvertisedFormat(); got != tc.advertised {
			t.Fatalf("%s: advertised = %v, want %v", tc.name, got, tc.advertised)
		}
	}
}

func TestFixedResultStats(t *testing.T) {
	got := FixedResultStats()
	want := ResultStats{TotalRows: 847, ProcessedRows: 842, ErrorRows: 5, ConfidenceScore: 94.7, ProcessingTimeSeconds: 3.2}
	if got != want {
		t.Fatalf("FixedResultStats() = %+v, want %+v", got, want)
	}
}
