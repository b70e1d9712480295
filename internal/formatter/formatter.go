// package formatter provides functions to export video lists to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/ponyseeo/internal/models"
	"github.com/desertthunder/ponyseeo/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat accepts a format name, or "md"/"txt" shorthands.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Export renders videos in format.
func Export(videos []models.Video, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ExportToJSON(videos)
	case FormatCSV:
		return ExportToCSV(videos)
	case FormatMarkdown:
		return ExportToMarkdown("Video Library", videos)
	case FormatText:
		return ExportToText(videos)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToJSON renders videos as an indented {"videos": [...]} document, the same shape the web API returns.
func ExportToJSON(videos []models.Video) ([]byte, error) {
	if videos == nil {
		videos = []models.Video{}
	}
	data, err := shared.MarshalJSON(map[string]any{"videos": videos}, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToCSV renders videos with columns: ID, Title, Width, Height, MimeType, VideoURL, Thumbnail
func ExportToCSV(videos []models.Video) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Width", "Height", "MimeType", "VideoURL", "Thumbnail"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, v := range videos {
		record := []string{
			v.ID,
			v.Title,
			strconv.Itoa(v.Width),
			strconv.Itoa(v.Height),
			v.MimeType,
			v.VideoURL,
			v.Thumbnail,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders videos as a titled list of linked thumbnails.
func ExportToMarkdown(title string, videos []models.Video) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Videos**: %d\n\n", len(videos))

	if len(videos) == 0 {
		buf.WriteString("_No videos found._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("## Videos\n\n")
	for i, v := range videos {
		fmt.Fprintf(&buf, "%d. [%s](%s) (%s)\n", i+1, escapeMarkdown(v.Title), v.VideoURL, Resolution(v))
		if v.Thumbnail != "" {
			fmt.Fprintf(&buf, "   ![%s](%s)\n", escapeMarkdown(v.Title), v.Thumbnail)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders videos as a numbered plain text list.
func ExportToText(videos []models.Video) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Videos: %d\n\n", len(videos))
	for i, v := range videos {
		fmt.Fprintf(&buf, "%d. %s [%s]\n   %s\n", i+1, v.Title, Resolution(v), v.VideoURL)
	}

	return buf.Bytes(), nil
}

// Resolution formats a video's dimensions as WIDTHxHEIGHT.
func Resolution(v models.Video) string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// UsersToText renders the sign-in ledger as an aligned table.
func UsersToText(users []*models.User) []byte {
	var buf bytes.Buffer

	if len(users) == 0 {
		buf.WriteString("No sign-ins recorded\n")
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, "%-4s  %-32s  %6s  %-20s  %-20s\n", "#", "EMAIL", "LOGINS", "FIRST SEEN", "LAST SEEN")
	for _, u := range users {
		fmt.Fprintf(&buf, "%-4d  %-32s  %6d  %-20s  %-20s\n",
			u.Sequence, u.Email, u.LoginCount,
			u.CreatedAt.Format("2006-01-02 15:04:05"),
			u.LastLoginAt.Format("2006-01-02 15:04:05"),
		)
	}

	return buf.Bytes()
}

// WriteExport renders videos and writes them to path.
func WriteExport(videos []models.Video, format Format, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	data, err := Export(videos, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(s)
}
