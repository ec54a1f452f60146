package excel

import "testing"

func TestBuildSheet(t *testing.T) {
	f, err := BuildSheet("Rides", []string{"Ride ID", "Driver", "Fare"}, [][]interface{}{
		{"R-1001", "Ayesha", 120.50},
		{"R-1002", "Omar", 75.00},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := f.GetCellValue("Rides", "A1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Ride ID" {
		t.Fatalf("expected header in A1, got %q", got)
	}

	got, err = f.GetCellValue("Rides", "B3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Omar" {
		t.Fatalf("expected second data row in B3, got %q", got)
	}
}

func TestBuildSheet_Empty(t *testing.T) {
	f, err := BuildSheet("Rides", []string{"Ride ID"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := f.GetCellValue("Rides", "A2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty cell below header, got %q", got)
	}
}
