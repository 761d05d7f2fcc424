package tabular

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetchInputLocalPath(t *testing.T) {
	path := writeFile(t, "local.csv", "a\n1\n")
	got, err := FetchInput(context.Background(), path, t.TempDir())
	if err != nil {
		t.Fatalf("FetchInput: %v", err)
	}
	if got != path {
		t.Errorf("got %q, want local path returned unchanged", got)
	}
}

func TestFetchInputURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("company_name\nAcme\n"))
	}))
	defer srv.Close()

	work := t.TempDir()
	got, err := FetchInput(context.Background(), srv.URL+"/companies.csv", work)
	if err != nil {
		t.Fatalf("FetchInput: %v", err)
	}
	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "company_name\nAcme\n" {
		t.Errorf("downloaded content = %q", data)
	}
}

func TestFetchInputURLQueryString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("company_name\nAcme\n"))
	}))
	defer srv.Close()

	work := t.TempDir()
	got, err := FetchInput(context.Background(), srv.URL+"/data.csv?v=2", work)
	if err != nil {
		t.Fatalf("FetchInput: %v", err)
	}
	// The query string must not leak into the file name, or the .zip /
	// .csv suffix checks downstream misfire.
	if filepath.Base(got) != "data.csv" {
		t.Errorf("downloaded as %q, want data.csv", filepath.Base(got))
	}
}

func TestRemoteFileName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/companies.csv", "companies.csv"},
		{"https://example.com/bulk/data.csv?v=2", "data.csv"},
		{"https://example.com/archive.zip#section", "archive.zip"},
		{"https://example.com/download/", "input.csv"},
		{"https://example.com", "input.csv"},
	}
	for _, tt := range tests {
		if got := remoteFileName(tt.url); got != tt.want {
			t.Errorf("remoteFileName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestFetchInputZip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bulk.zip")

	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, content := range map[string]string{
		"readme.txt":    "not this one",
		"companies.csv": "company_name\nAcme\n",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip entry: %v", err)
		}
		w.Write([]byte(content))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	f.Close()

	got, err := FetchInput(context.Background(), zipPath, dir)
	if err != nil {
		t.Fatalf("FetchInput: %v", err)
	}
	if filepath.Base(got) != "companies.csv" {
		t.Errorf("got %q, want the CSV inside the archive", got)
	}
}

func TestFetchInputZipWithoutCSV(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bulk.zip")

	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("readme.txt")
	w.Write([]byte("nothing tabular here"))
	zw.Close()
	f.Close()

	if _, err := FetchInput(context.Background(), zipPath, dir); err == nil {
		t.Fatal("expected error when archive holds no CSV")
	}
}

func TestDownloadFileRetriesThenFails(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := downloadFile(context.Background(), srv.URL, filepath.Join(t.TempDir(), "out"))
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if hits != 3 {
		t.Errorf("server hit %d times, want 3 attempts", hits)
	}
}
