package cbw

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const formatName = "CBW"

// manifStack is for two reasons ->
// * detect circular deps (not an error, but we need to know to avoid them)
// * avoid infinite recursion (allow up to MaxManifestRecursionDepth levels)
//
// Returns ErrManifestEmpty if and only if the first manifest in the stack is
// empty, otherwise it is not an error.
func recursiveUnmarshalResource(path string, manifStack []string) (topLevelScenario, error) {
	path = filepath.Clean(path)

	fileData, err := os.ReadFile(path)
	if err != nil {
		return topLevelScenario{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	fileInfo, err := ScanFileInfo(fileData)
	if err != nil {
		return topLevelScenario{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}

	if strings.ToUpper(fileInfo.Format) != formatName {
		return topLevelScenario{}, fmt.Errorf("%q: file does not have a 'format = \"%s\"' entry", path, formatName)
	}

	switch strings.ToUpper(fileInfo.Type) {
	case "DATA":
		unmarshaled, err := unmarshalScenario(fileData)
		if err != nil {
			return unmarshaled, fmt.Errorf("scenario file %q: %w", path, err)
		}
		return unmarshaled, nil
	case "MANIFEST":
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelScenario{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return topLevelScenario{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		manif, err := unmarshalManifest(fileData)
		if err != nil {
			return topLevelScenario{}, fmt.Errorf("manifest file %q: %w", path, err)
		}

		// an empty manifest is only a problem for the very first one
		if len(manif.Files) < 1 && len(manifStack) == 0 {
			return topLevelScenario{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}

		manifSubStack := make([]string, len(manifStack)+1)
		copy(manifSubStack, manifStack)
		manifSubStack[len(manifSubStack)-1] = path

		manifDir := filepath.Dir(path)

		var combined topLevelScenario
		processedFiles := 0

		for _, manifRelPath := range manif.Files {
			includedFilePath := filepath.Join(manifDir, manifRelPath)

			included, err := recursiveUnmarshalResource(includedFilePath, manifSubStack)
			if err != nil {
				// circular references are skipped, not fatal
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}

				return topLevelScenario{}, fmt.Errorf("in file referred to by manifest file:\n    %q\n%w", path, err)
			}

			if included.Anchor != nil {
				if combined.Anchor != nil {
					return combined, fmt.Errorf("scenario file %q: duplicate anchor; anchor has already been defined", includedFilePath)
				}
				combined.Anchor = included.Anchor
			}
			combined.Templates = append(combined.Templates, included.Templates...)
			combined.Agents = append(combined.Agents, included.Agents...)
			combined.Blocks = append(combined.Blocks, included.Blocks...)
			combined.Points = append(combined.Points, included.Points...)
			processedFiles++
		}

		if len(manifStack) == 0 && processedFiles == 0 {
			return combined, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return combined, nil
	default:
		return topLevelScenario{}, fmt.Errorf("%q: file does not have 'type = ' entry set to either \"DATA\" or \"MANIFEST\"", path)
	}
}

// unmarshalScenario unmarshals scenario data from the given bytes. It does
// not check the data.
func unmarshalScenario(tomlData []byte) (topLevelScenario, error) {
	var cbw topLevelScenario
	if err := toml.Unmarshal(tomlData, &cbw); err != nil {
		return cbw, err
	}

	if strings.ToUpper(cbw.Format) != formatName {
		return cbw, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", formatName)
	}
	if strings.ToUpper(cbw.Type) != "DATA" {
		return cbw, fmt.Errorf("in header: 'type' must exist and be set to 'DATA'")
	}

	return cbw, nil
}

// unmarshalManifest unmarshals a CBW manifest from the given bytes.
func unmarshalManifest(tomlData []byte) (topLevelManifest, error) {
	var cbw topLevelManifest
	if err := toml.Unmarshal(tomlData, &cbw); err != nil {
		return cbw, err
	}

	if strings.ToUpper(cbw.Format) != formatName {
		return cbw, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", formatName)
	}
	if strings.ToUpper(cbw.Type) != "MANIFEST" {
		return cbw, fmt.Errorf("in header: 'type' must exist and be set to 'MANIFEST'")
	}

	return cbw, nil
}
