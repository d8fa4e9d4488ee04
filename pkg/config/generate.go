package config

import (
	"bytes"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

const generatedHeader = `# hatch configuration
#
# Generated from the effective settings. Place it in the project root as
# hatch.toml, or at $XDG_CONFIG_HOME/hatch/config.toml for every project.

`

// GenerateConfigContent renders settings as a TOML document
func GenerateConfigContent(s *Settings) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)

	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(s); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode settings")
	}
	return buf.String(), nil
}
