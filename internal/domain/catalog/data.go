package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/isotopelab/isotope/internal/domain/model"
)

//go:embed elements.yaml
var defaultCatalogYAML []byte

// catalogFile mirrors the YAML layout of a catalog data file.
type catalogFile struct {
	Elements   []Element   `yaml:"elements"`
	Thresholds []Threshold `yaml:"thresholds"`
}

// defaultPeriodGames maps each period to the game modes it unlocks.
// Keyed 1..7; periods beyond the catalog's range are legitimate here
// because the table outlives any particular catalog subset.
func defaultPeriodGames() map[int][]model.GameMode {
	return map[int][]model.GameMode{
		1: {model.ModeTutorial, model.ModeElementMatch},
		2: {model.ModeSymbolQuiz, model.ModeMemoryPairs},
		3: {model.ModeGroupSort, model.ModeElectronConfig},
		4: {model.ModeBondBuilder, model.ModeReactionRace},
		5: {model.ModeIsotopeHunt},
		6: {model.ModePeriodicMaster},
		7: {model.ModeLabMaster},
	}
}

// Default builds the catalog from the embedded data file.
func Default() (*Catalog, error) {
	return parse(defaultCatalogYAML)
}

// LoadFile builds the catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadCatalog, err)
	}
	return New(f.Elements, f.Thresholds, defaultPeriodGames())
}
