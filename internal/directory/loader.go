package directory

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Format identifies a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// DetectFormat maps a file extension to a dataset Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q", filepath.Ext(path))
	}
}

// Parse reads a profile dataset in the given format.
func Parse(r io.Reader, format Format) ([]Profile, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(r)
	case FormatCSV:
		return ParseCSV(r)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}
}

// ParseJSON decodes a JSON array of profiles. Unknown fields are ignored and
// absent fields stay zero — a dataset row is never rejected for missing data.
func ParseJSON(r io.Reader) ([]Profile, error) {
	var profiles []Profile
	if err := json.NewDecoder(r).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("decoding profile dataset: %w", err)
	}
	return profiles, nil
}

// listSeparator splits multi-value CSV cells (expertise tags, goals, offering).
const listSeparator = ";"

// ParseCSV decodes a header-mapped CSV dataset. Recognized headers:
// id, name, photo_glyph, graduation_year, city, country, current_role,
// company, industry, experience_level, expertise_tags, goals, offering,
// availability. List columns use ";" between values. Unknown headers are
// ignored; missing columns leave the field zero.
func ParseCSV(r io.Reader) ([]Profile, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var profiles []Profile
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", line, err)
		}

		cell := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		var p Profile
		p.ID = cell("id")
		p.Personal.Name = cell("name")
		p.Personal.PhotoGlyph = cell("photo_glyph")
		if y := cell("graduation_year"); y != "" {
			year, err := strconv.Atoi(y)
			if err != nil {
				return nil, fmt.Errorf("CSV line %d: invalid graduation_year %q", line, y)
			}
			p.Personal.GraduationYear = year
		}
		p.Personal.Location.City = cell("city")
		p.Personal.Location.Country = cell("country")
		p.Professional.CurrentRole = cell("current_role")
		p.Professional.Company = cell("company")
		p.Professional.Industry = cell("industry")
		p.Professional.ExperienceLevel = cell("experience_level")
		p.Professional.ExpertiseTags = splitList(cell("expertise_tags"))
		p.Networking.Goals = splitList(cell("goals"))
		p.Networking.Offering = splitList(cell("offering"))
		p.Networking.Availability = Availability(cell("availability"))

		profiles = append(profiles, p)
	}
	return profiles, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// LoadFile parses a single dataset file, detecting the format from its extension.
func LoadFile(path string) ([]Profile, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return Parse(f, format)
}

// LoadFiles parses multiple dataset files concurrently and concatenates the
// results in input-path order. Returns nil (not error) for empty input.
func LoadFiles(ctx context.Context, paths []string) ([]Profile, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	perFile := make([][]Profile, len(paths))
	var mu sync.Mutex

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4) // Bound concurrency; datasets can be large.

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			profiles, err := LoadFile(path)
			if err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
			mu.Lock()
			perFile[i] = profiles
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Profile
	for _, profiles := range perFile {
		all = append(all, profiles...)
	}
	return all, nil
}
