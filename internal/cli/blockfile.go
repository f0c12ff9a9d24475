package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
	"github.com/AlexGitta/Fuzz/workspace"
)

// blockDefinition is one entry of a --blocks YAML file. Fields are read
// according to type: divisor for divisor blocks, start/end for range
// blocks. A missing name falls back to the word, then to the type.
type blockDefinition struct {
	Type    string `yaml:"type"`
	Name    string `yaml:"name"`
	Word    string `yaml:"word"`
	Divisor int    `yaml:"divisor"`
	Start   int    `yaml:"start"`
	End     int    `yaml:"end"`
}

// LoadBlockFile reads an ordered YAML block list and materializes it
// through a workspace, so validation, IDs, and ordering behave exactly
// as they do in the service. File order is block order.
func LoadBlockFile(path string) ([]fizzbuzz.RuleBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("cannot read block file %s", path), err)
	}

	var defs []blockDefinition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("cannot parse block file %s", path), err)
	}
	if len(defs) == 0 {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("block file %s contains no blocks", path))
	}

	ws := workspace.New("cli", "cli")
	for i, def := range defs {
		blockType, err := fizzbuzz.ParseBlockType(def.Type)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("block %d in %s", i+1, path), err)
		}

		name := def.Name
		if name == "" {
			name = def.Word
		}
		if name == "" {
			name = def.Type
		}

		_, err = ws.AddBlock(workspace.BlockParams{
			Type:       blockType,
			Name:       name,
			Word:       def.Word,
			Divisor:    def.Divisor,
			RangeStart: def.Start,
			RangeEnd:   def.End,
		})
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("block %d in %s is invalid", i+1, path), err)
		}
	}
	return ws.Blocks(), nil
}
