package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/linkboard/internal/board"
)

// YAML converts doc to YAML with the same field names as its JSON form.
func YAML(doc *board.Document) ([]byte, error) {
	data, err := board.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("board.Encode > %w", err)
	}
	// Numbers stay json.Number so epoch milliseconds are written as integers.
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var tree map[string]any
	if err := decoder.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decoder.Decode > %w", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("yaml.Marshal > %w", err)
	}
	return out, nil
}
