package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ponyseeo/internal/models"
	"github.com/desertthunder/ponyseeo/internal/shared"
	th "github.com/desertthunder/ponyseeo/internal/testing"
)

func TestExporters(t *testing.T) {
	videos := th.SampleVideos(2)

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(videos)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}

		if len(records) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "ID,Title,Width,Height,MimeType,VideoURL,Thumbnail" {
			t.Errorf("unexpected headers %v", records[0])
		}
		if records[1][0] != "v1" || records[1][2] != "1920" || records[1][5] != videos[0].VideoURL {
			t.Errorf("unexpected first row %v", records[1])
		}
	})

	t.Run("ExportToCSV quotes commas", func(t *testing.T) {
		data, err := ExportToCSV([]models.Video{{ID: "x", Title: "beach, day one"}})
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), `"beach, day one"`) {
			t.Errorf("expected quoted title, got %s", data)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown("Holiday", videos)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Holiday",
			"**Videos**: 2",
			"1. [clip-v1.mp4](https://lh3.googleusercontent.com/v1=dv) (1920x1080)",
			"![clip-v2.mp4](https://lh3.googleusercontent.com/v2=w640-h360)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected markdown to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown escapes brackets and handles empty lists", func(t *testing.T) {
		data, _ := ExportToMarkdown("Empty", nil)
		if !strings.Contains(string(data), "No videos found") {
			t.Errorf("expected empty note, got %s", data)
		}

		data, _ = ExportToMarkdown("T", []models.Video{{Title: "[draft]", VideoURL: "u"}})
		if !strings.Contains(string(data), `\[draft\]`) {
			t.Errorf("expected escaped title, got %s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(videos)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Videos: 2\n") {
			t.Errorf("unexpected header: %s", output)
		}
		if !strings.Contains(output, "1. clip-v1.mp4 [1920x1080]") {
			t.Errorf("missing first entry: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(nil)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var body map[string][]models.Video
		if err := json.Unmarshal(data, &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if videos, ok := body["videos"]; !ok || videos == nil {
			t.Errorf("expected empty videos array, got %s", data)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatJSON},
		{"json", FormatJSON},
		{"CSV", FormatCSV},
		{"md", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"txt", FormatText},
		{" text ", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestExport(t *testing.T) {
	videos := th.SampleVideos(1)

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			data, err := Export(videos, format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(string(data), "v1") {
				t.Errorf("expected output to mention the video, got %s", data)
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		if _, err := Export(videos, Format("xml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "videos.csv")

		if err := WriteExport(th.SampleVideos(2), FormatCSV, path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.HasPrefix(string(data), "ID,Title") {
			t.Errorf("unexpected file contents: %s", data)
		}
	})

	t.Run("requires a path", func(t *testing.T) {
		if err := WriteExport(nil, FormatCSV, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "videos.csv")
		if err := WriteExport(nil, FormatCSV, path); err == nil {
			t.Error("expected write error")
		}
	})
}

func TestUsersToText(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := string(UsersToText(nil)); got != "No sign-ins recorded\n" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("table", func(t *testing.T) {
		seen := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
		users := []*models.User{{Sequence: 7, Email: "pony@example.com", LoginCount: 3, CreatedAt: seen, LastLoginAt: seen}}

		output := string(UsersToText(users))
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected header and 1 row, got %d lines", len(lines))
		}
		for _, want := range []string{"7", "pony@example.com", "3", "2025-03-01 12:30:00"} {
			if !strings.Contains(lines[1], want) {
				t.Errorf("expected row to contain %q, got %q", want, lines[1])
			}
		}
	})
}
