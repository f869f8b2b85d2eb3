package cli

import (
	"fmt"
	"os"
	"regexp"

	"github.com/radovskyb/watcher"
)

type FilePattern struct {
	Pattern *regexp.Regexp
	Exclude bool
}

func defaultFilePatterns() []interface{} {
	return []interface{}{
		`\.(ya?ml|toml|json)$`,
		map[string]interface{}{`^\.`: nil, "exclude": true},
	}
}

// parseFiles decodes the watch patterns. Each pattern is either a regex string,
// a single entry map of regex to exclude flag, or a map holding the regex as a
// null key next to an "exclude" flag.
func parseFiles(raw interface{}) (files []FilePattern, err error) {
	_files, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("could not process files list %v", raw)
	}

	for _, filePattern := range _files {
		fp, fpErr := parseFilePattern(filePattern)
		if fpErr != nil {
			return nil, fmt.Errorf("could not process file pattern value %v: %w", filePattern, fpErr)
		}
		files = append(files, fp)
	}

	return
}

func parseFilePattern(filePattern interface{}) (fp FilePattern, err error) {
	switch _fp := filePattern.(type) {
	case string:
		fp.Pattern, err = compilePattern(_fp)
		return
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(_fp))
		for k, v := range _fp {
			ks, ok := k.(string)
			if !ok {
				err = fmt.Errorf("pattern %v is not a string", k)
				return
			}
			m[ks] = v
		}
		return parseFilePatternMap(m)
	case map[string]interface{}:
		return parseFilePatternMap(_fp)
	}

	err = fmt.Errorf("unsupported pattern type %T", filePattern)
	return
}

func parseFilePatternMap(m map[string]interface{}) (fp FilePattern, err error) {
	if len(m) == 1 {
		for k, v := range m {
			fp.Pattern, err = compilePattern(k)
			exclude, ok := v.(bool)
			fp.Exclude = exclude && ok
		}
		return
	}

	for k, v := range m {
		if v == nil {
			fp.Pattern, err = compilePattern(k)
			if err != nil {
				return
			}
			break
		}
	}
	if fp.Pattern == nil {
		err = fmt.Errorf("no pattern found in %v", m)
		return
	}

	exclude, ok := m["exclude"].(bool)
	fp.Exclude = exclude && ok
	return
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("could not compile file pattern regex: %w", err)
	}
	return re, nil
}

// keep reports whether a file name passes the patterns. The last matching
// pattern decides; names matching none are dropped.
func keep(files []FilePattern, name string) bool {
	for i := len(files) - 1; i >= 0; i-- {
		if files[i].Pattern.MatchString(name) {
			return !files[i].Exclude
		}
	}
	return false
}

// MultiRegexFilterHook skips palette files that the patterns drop.
func MultiRegexFilterHook(files []FilePattern) watcher.FilterFileHookFunc {
	return func(info os.FileInfo, fullPath string) error {
		if keep(files, info.Name()) {
			return nil
		}
		return watcher.ErrSkip
	}
}
