package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_TYPE", "")
	t.Setenv("PORT", "")
	t.Setenv("TOKEN_HOUR_LIFESPAN", "12")

	cfg := LoadConfig()
	if cfg.DBType != "file" {
		t.Errorf("DBType = %q", cfg.DBType)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.TokenHours != 12 {
		t.Errorf("TokenHours = %d", cfg.TokenHours)
	}
}

func TestLoadClinicProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinic.toml")
	body := `
[clinic]
name = "Test Clinic"
city = "Agra"

[[clinic.mobile]]
number = "9000000001"
label = "Desk"
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadClinicProfile(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.ClinicName != "Test Clinic" || p.City != "Agra" {
		t.Fatalf("profile = %+v", p)
	}
	if p.BillAddress() != "Mainpuri" {
		t.Fatalf("default bill address = %q", p.BillAddress())
	}
	if len(p.Mobile) != 1 || p.Mobile[0].Label != "Desk" {
		t.Fatalf("mobile = %+v", p.Mobile)
	}

	if _, err := LoadClinicProfile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
