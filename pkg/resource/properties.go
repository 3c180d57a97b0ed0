package resource

import (
	"bytes"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/spf13/viper"

	"weather-client/configs"
)

var properties = viper.New()
var envPattern = regexp.MustCompile(`^\$\{([^:}]+)(?::([^}]*))?}$`)

// init loads application properties from PROPERTIES_FILE_PATH, or the embedded defaults
func init() {
	if path, ok := os.LookupEnv("PROPERTIES_FILE_PATH"); ok {
		Init(path)
		return
	}
	load(func(v *viper.Viper) error {
		return v.ReadConfig(bytes.NewReader(configs.ApplicationYAML))
	})
}

// Init replaces the loaded properties with the YAML file at filepath.
func Init(filepath string) {
	load(func(v *viper.Viper) error {
		v.SetConfigFile(filepath)
		return v.ReadInConfig()
	})
}

func load(read func(v *viper.Viper) error) {
	raw := viper.New()
	raw.SetConfigType("yml")

	if err := read(raw); err != nil {
		log.Fatalf("Fail to read properties: %v", err)
	}

	resolved := viper.New()
	flattenProperties("", raw.AllSettings(), resolved)
	properties = resolved
}

// flattenProperties walks the YAML tree and stores every leaf with its env placeholder resolved
func flattenProperties(prefix string, data map[string]any, target *viper.Viper) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			target.Set(fullKey, resolveEnvVariable(v))
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			target.Set(fullKey, v)
		case []any:
			target.Set(fullKey, v)
		case map[string]any:
			flattenProperties(fullKey, v, target)
		default:
			log.Printf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// resolveEnvVariable expands a ${NAME:default} value; plain values are returned unchanged
func resolveEnvVariable(value string) string {
	matches := envPattern.FindStringSubmatch(value)
	if matches == nil {
		return value
	}
	if envValue, exists := os.LookupEnv(matches[1]); exists {
		return envValue
	}
	return matches[2]
}

// Set overrides a single property, mostly useful in tests.
func Set(key string, value any) {
	properties.Set(key, value)
}

func GetString(key string) string {
	return properties.GetString(key)
}

func GetBool(key string) bool {
	return properties.GetBool(key)
}

func GetDuration(key string) time.Duration {
	return properties.GetDuration(key)
}

func GetInt(key string) int {
	return properties.GetInt(key)
}

func GetFloat64(key string) float64 {
	return properties.GetFloat64(key)
}
