package dat

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parser reads descriptor DAT files. Both the FinalBurn Neo dialect
// (<game> entries) and the MAME dialect (<machine> entries) are accepted.
type Parser struct{}

// NewParser builds a fresh DAT parser.
func NewParser() Parser {
	return Parser{}
}

// ParseFile opens and parses a DAT file.
func (p Parser) ParseFile(path string) (*DataFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dat %s: %w", path, err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse consumes DAT XML content from the provided reader.
func (p Parser) Parse(r io.Reader) (*DataFile, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false // DAT files reference a DTD; relax strict parsing.

	var df DataFile
	if err := decoder.Decode(&df); err != nil {
		return nil, fmt.Errorf("decode dat: %w", err)
	}
	return &df, nil
}

// DataFile is the root node of a DAT file.
type DataFile struct {
	XMLName  xml.Name `xml:"datafile"`
	Header   Header   `xml:"header"`
	Games    []Game   `xml:"game"`
	Machines []Game   `xml:"machine"`
}

// Header carries top-level metadata for the DAT.
type Header struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Category    string `xml:"category"`
	Version     string `xml:"version"`
	Author      string `xml:"author"`
	Homepage    string `xml:"homepage"`
	URL         string `xml:"url"`
}

// Game represents a single ROM set entry in either dialect.
type Game struct {
	Name         string `xml:"name,attr"`
	SourceFile   string `xml:"sourcefile,attr,omitempty"`
	IsBios       string `xml:"isbios,attr,omitempty"`
	CloneOf      string `xml:"cloneof,attr,omitempty"`
	RomOf        string `xml:"romof,attr,omitempty"`
	Description  string `xml:"description"`
	Year         string `xml:"year"`
	Manufacturer string `xml:"manufacturer"`
	Roms         []Rom  `xml:"rom"`
}

// Rom describes a single ROM file entry inside a set.
type Rom struct {
	Name string `xml:"name,attr"`
	Size int64  `xml:"size,attr,omitempty"`
	CRC  string `xml:"crc,attr,omitempty"`
}

// Meta is the normalized metadata extracted for one set name.
type Meta struct {
	Title        string
	Year         string
	Manufacturer string
	Clone        bool
}

// Entries returns the game and machine entries as a single list, games
// first. The order matters for last-wins merging in Lookup.
func (df *DataFile) Entries() []Game {
	out := make([]Game, 0, len(df.Games)+len(df.Machines))
	out = append(out, df.Games...)
	out = append(out, df.Machines...)
	return out
}

// Lookup builds a lower-cased set-name index of the DAT. BIOS sets are
// excluded. Entries without a name contribute nothing; their count is
// returned so callers can surface diagnostics. Duplicate names merge
// last-wins.
func (df *DataFile) Lookup() (map[string]Meta, int) {
	if df == nil {
		return map[string]Meta{}, 0
	}
	index := make(map[string]Meta)
	nameless := 0
	for _, entry := range df.Entries() {
		if strings.EqualFold(entry.IsBios, "yes") {
			continue
		}
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			nameless++
			continue
		}
		title := strings.TrimSpace(entry.Description)
		if title == "" {
			title = name
		}
		index[strings.ToLower(name)] = Meta{
			Title:        title,
			Year:         strings.TrimSpace(entry.Year),
			Manufacturer: strings.TrimSpace(entry.Manufacturer),
			Clone:        strings.TrimSpace(entry.CloneOf) != "",
		}
	}
	return index, nameless
}
