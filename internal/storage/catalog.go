package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matsen/blueprint/internal/project"
)

// catalogTOML is the layout of a hand-written catalog:
//
//	[[project]]
//	id = "proj1"
//	title = "Dungeon Crawler"
//	tags = ["MAIN"]
type catalogTOML struct {
	Projects []project.Summary `toml:"project"`
}

// ReadCatalogFile reads project summaries from a .toml catalog or, for any
// other extension, a JSONL file with one summary per line.
func ReadCatalogFile(path string) ([]project.Summary, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	if !strings.EqualFold(filepath.Ext(path), ".toml") {
		return ReadJSONLFile[project.Summary](path)
	}

	var cf catalogTOML
	md, err := toml.DecodeFile(path, &cf)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing %s: unknown key %s", path, undecoded[0])
	}
	return cf.Projects, nil
}
