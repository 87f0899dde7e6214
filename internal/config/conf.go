package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"

	errpkg "download_planner/internal/errors"
	"download_planner/internal/option"
)

// LoadConfFile overlays the key=value pairs found in path onto opt. A missing
// file is not an error. Unknown keys are ignored; values that fail their
// key's validation abort the load and leave opt untouched.
func LoadConfFile(path string, opt *option.Option) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: reading %s: %v", errpkg.ErrFileAccess, path, err)
	}

	for key, value := range values {
		if !option.IsKnown(key) {
			continue
		}
		if err := option.Validate(key, value); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	for key, value := range values {
		if option.IsKnown(key) {
			opt.Put(key, value)
		}
	}
	return nil
}
