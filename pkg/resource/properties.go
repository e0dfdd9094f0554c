package resource

import (
	"log"
	"os"
	"regexp"
	"time"

	"github.com/spf13/viper"
)

var props = viper.New()
var envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]+))?}`)

// init loads application properties from YAML when the file is present;
// a missing file is not fatal so that library consumers may skip the
// properties layer entirely.
func init() {
	path, ok := os.LookupEnv("PROPERTIES_FILE_PATH")
	if !ok {
		path = "configs/application.yml"
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	Init(path)
}

// Init loads the properties file at the given path, flattening nested keys
// to dotted form and resolving ${ENV_VAR:default} placeholders.
func Init(filepath string) {
	props.SetConfigFile(filepath)
	props.SetConfigType("yml")

	if err := props.ReadInConfig(); err != nil {
		log.Fatalf("Fail to read properties: %v", err)
	}

	resolved := make(map[string]any)
	parsePropertiesMap("", props.AllSettings(), resolved)

	if err := props.MergeConfigMap(resolved); err != nil {
		log.Fatalf("Fail to merge properties: %v", err)
	}
}

// parsePropertiesMap reads the settings tree recursively
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = resolveEnvVariable(v)
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			result[fullKey] = v
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		default:
			log.Printf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// resolveEnvVariable substitutes a ${ENV_VAR:default} placeholder with the
// environment value, falling back to the default. Plain values pass through.
func resolveEnvVariable(value string) string {
	matches := envPattern.FindStringSubmatch(value)
	if len(matches) == 0 {
		return value
	}

	if envValue, exists := os.LookupEnv(matches[1]); exists {
		return envValue
	}
	return matches[2]
}

func Get(key string) any {
	return props.Get(key)
}

func GetString(key string) string {
	return props.GetString(key)
}

func GetBool(key string) bool {
	return props.GetBool(key)
}

func GetDuration(key string) time.Duration {
	return props.GetDuration(key)
}

func GetInt(key string) int {
	return props.GetInt(key)
}

func GetInt32(key string) int32 {
	return props.GetInt32(key)
}

func GetInt64(key string) int64 {
	return props.GetInt64(key)
}

func GetStringSlice(key string) []string {
	return props.GetStringSlice(key)
}
