package palette

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/conradludgate/hslwatch"
)

// ColorsKey is where palette files keep their colors.
const ColorsKey = "colors"

type Entry struct {
	Name  string
	Color hslwatch.HSL
}

// Load reads a standalone palette file. The format follows the file extension.
func Load(path string, logger *log.Entry) ([]Entry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("could not read palette %s: %w", path, err)
	}

	return Parse(v, ColorsKey, logger)
}

// Parse decodes the named colors stored under key. Entries are sorted by name,
// which viper has already lower-cased.
func Parse(v *viper.Viper, key string, logger *log.Entry) (entries []Entry, err error) {
	if !v.IsSet(key) {
		return nil, nil
	}

	raw, ok := v.Get(key).(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be a map of color names to values", key)
	}

	for name, value := range raw {
		c, colorErr := ParseColor(value)
		if colorErr != nil {
			return nil, fmt.Errorf("could not process color %q: %w", name, colorErr)
		}

		if logger != nil && outOfRange(c) {
			logger.WithField("color", name).Warnf("%s is outside the usual range", c)
		}

		entries = append(entries, Entry{Name: name, Color: c})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return
}

// ParseColor decodes one color value. It accepts "h, s, l" or "hsl(h, s%, l%)"
// strings, [h, s, l] lists and {h, s, l} maps. Numbers go through
// hslwatch.NewHSL; numbers written with a % suffix are divided by 100 first.
func ParseColor(value interface{}) (c hslwatch.HSL, err error) {
	switch _v := value.(type) {
	case string:
		return parseColorString(_v)
	case []interface{}:
		if len(_v) != 3 {
			err = fmt.Errorf("expected 3 components, got %d", len(_v))
			return
		}
		return fromComponents(_v[0], _v[1], _v[2])
	case map[string]interface{}:
		return fromMap(_v)
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(_v))
		for k, val := range _v {
			ks, ok := k.(string)
			if !ok {
				err = fmt.Errorf("unexpected key %v", k)
				return
			}
			m[ks] = val
		}
		return fromMap(m)
	}

	err = fmt.Errorf("unsupported color value %v", value)
	return
}

func fromMap(m map[string]interface{}) (hslwatch.HSL, error) {
	for _, k := range []string{"h", "s", "l"} {
		if _, ok := m[k]; !ok {
			return hslwatch.HSL{}, fmt.Errorf("missing %q", k)
		}
	}
	return fromComponents(m["h"], m["s"], m["l"])
}

func parseColorString(s string) (hslwatch.HSL, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "hsl(") && strings.HasSuffix(lower, ")") {
		s = s[len("hsl(") : len(s)-1]
	}

	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 3 {
		return hslwatch.HSL{}, fmt.Errorf("expected 3 components in %q", s)
	}

	return fromComponents(fields[0], fields[1], fields[2])
}

func fromComponents(h, s, l interface{}) (c hslwatch.HSL, err error) {
	hue, err := toFloat(h)
	if err != nil {
		err = fmt.Errorf("hue: %w", err)
		return
	}
	if hue != math.Trunc(hue) {
		err = fmt.Errorf("hue must be a whole number of degrees, got %v", hue)
		return
	}

	sat, err := toFloat(s)
	if err != nil {
		err = fmt.Errorf("saturation: %w", err)
		return
	}

	light, err := toFloat(l)
	if err != nil {
		err = fmt.Errorf("lightness: %w", err)
		return
	}

	return hslwatch.NewHSL(int(hue), float32(sat), float32(light)), nil
}

func toFloat(value interface{}) (float64, error) {
	switch _v := value.(type) {
	case int:
		return float64(_v), nil
	case int64:
		return float64(_v), nil
	case uint64:
		return float64(_v), nil
	case float32:
		return float64(_v), nil
	case float64:
		return _v, nil
	case string:
		_v = strings.TrimSpace(_v)
		percent := strings.HasSuffix(_v, "%")
		f, err := strconv.ParseFloat(strings.TrimSuffix(_v, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse number %q: %w", _v, err)
		}
		if percent {
			f /= 100
		}
		return f, nil
	}
	return 0, fmt.Errorf("unsupported number %v", value)
}

func outOfRange(c hslwatch.HSL) bool {
	return c.H < 0 || c.H >= 360 ||
		c.S < 0 || c.S > 1 ||
		c.L < 0 || c.L > 1
}
