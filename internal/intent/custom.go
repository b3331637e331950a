package intent

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadCustomCommands reads the exact-phrase override map. A missing file
// yields an empty map.
func LoadCustomCommands(path string) (CustomCommands, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return CustomCommands{}, nil
		}
		return nil, fmt.Errorf("read custom commands: %w", err)
	}
	var cmds CustomCommands
	if err := json.Unmarshal(data, &cmds); err != nil {
		return nil, fmt.Errorf("parse custom commands: %w", err)
	}
	return cmds, nil
}
