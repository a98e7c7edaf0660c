package cli

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var messagesYAML []byte

// Messages holds the fixed texts shown by the interactive session.
type Messages struct {
	Welcome string `yaml:"welcome"`
	Options string `yaml:"options"`
	Goodbye string `yaml:"goodbye"`
}

// LoadMessages decodes the embedded message catalogue.
func LoadMessages() (Messages, error) {
	var m Messages
	if err := yaml.Unmarshal(messagesYAML, &m); err != nil {
		return Messages{}, fmt.Errorf("decode messages: %w", err)
	}
	if m.Welcome == "" || m.Options == "" || m.Goodbye == "" {
		return Messages{}, fmt.Errorf("messages catalogue is incomplete")
	}
	return m, nil
}
