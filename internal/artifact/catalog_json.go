package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-json"

	"reelmatch/internal/catalog"
)

type catalogRecord struct {
	Title    *string `json:"title"`
	Position *int    `json:"position,omitempty"`
}

// ReadCatalogFile decodes a catalog JSON file.
func ReadCatalogFile(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return DecodeCatalog(data)
}

// DecodeCatalog accepts a records array (`[{"title": ...}]`) or a columnar
// object (`{"title": {"0": ...}}`).
func DecodeCatalog(data []byte) (*catalog.Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("catalog is empty")
	}
	switch trimmed[0] {
	case '[':
		return decodeRecords(trimmed)
	case '{':
		return decodeColumns(trimmed)
	default:
		return nil, errors.New("catalog must be a JSON array or object")
	}
}

func decodeRecords(data []byte) (*catalog.Catalog, error) {
	var records []catalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog records: %w", err)
	}
	items := make([]catalog.Item, len(records))
	for idx, record := range records {
		if record.Title == nil {
			return nil, fmt.Errorf("catalog record %d has no title", idx)
		}
		if record.Position != nil && *record.Position != idx {
			return nil, fmt.Errorf("catalog record %d declares position %d", idx, *record.Position)
		}
		items[idx] = catalog.Item{Position: idx, Title: *record.Title}
	}
	return catalog.New(items)
}

func decodeColumns(data []byte) (*catalog.Catalog, error) {
	var columns map[string]json.RawMessage
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("decode catalog columns: %w", err)
	}
	raw, ok := columns["title"]
	if !ok {
		return nil, errors.New(`catalog object has no "title" column`)
	}
	var titles map[string]string
	if err := json.Unmarshal(raw, &titles); err != nil {
		return nil, fmt.Errorf("decode title column: %w", err)
	}

	ordered := make([]string, len(titles))
	filled := make([]bool, len(titles))
	for key, title := range titles {
		pos, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("title column key %q is not a position", key)
		}
		if pos < 0 || pos >= len(titles) || filled[pos] {
			return nil, fmt.Errorf("title column positions must be contiguous from 0; got %d", pos)
		}
		ordered[pos] = title
		filled[pos] = true
	}
	return catalog.FromTitles(ordered)
}

// EncodeCatalog writes the catalog as a records array.
func EncodeCatalog(w io.Writer, c *catalog.Catalog) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Items())
}
